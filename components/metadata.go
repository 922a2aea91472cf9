package components

// String returns the display name for a Kind.
func (k Kind) String() string {
	switch k {
	case KindPredator:
		return "predator"
	case KindPrey:
		return "prey"
	}
	return "unknown"
}

// String returns the display name for a Gender.
func (g Gender) String() string {
	if g == Female {
		return "female"
	}
	return "male"
}

// String returns the display name for an Ecotype.
func (e Ecotype) String() string {
	if e == Transient {
		return "transient"
	}
	return "resident"
}

// String returns the display name for an Action.
func (a Action) String() string {
	if a == ActionHunt {
		return "hunt"
	}
	return "idle"
}

// HuntStateNames returns the display names for all hunt states.
// The order matches the HuntState constants.
func HuntStateNames() []string {
	return []string{"idle", "requested", "executing", "success", "cancelled"}
}

// String returns the display name for a HuntState.
func (s HuntState) String() string {
	names := HuntStateNames()
	if int(s) < len(names) {
		return names[s]
	}
	return "unknown"
}

// Terminal reports whether the pursuit has ended.
func (s HuntState) Terminal() bool {
	return s == HuntSuccess || s == HuntCancelled
}
