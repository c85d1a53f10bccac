package usecase

import "github.com/ltsch/scimcheck/internal/domain"

// conditionHolds reports whether a wait condition is observable in the given
// snapshot.
func conditionHolds(c domain.Condition, st domain.SurfaceState) bool {
	switch c {
	case domain.CondConfigured:
		return st.Configured && len(st.Navigation) > 0
	case domain.CondConfigError:
		return st.ConfigError != "" ||
			(st.Banner != nil && st.Banner.Kind == domain.BannerError && !st.Configured)
	case domain.CondListOrEmpty:
		return !st.Loading && st.List != nil
	case domain.CondPopulated:
		return !st.Loading && st.List != nil && !st.List.Empty && st.List.Count > 0
	case domain.CondEmpty:
		return !st.Loading && st.List != nil && st.List.Empty
	case domain.CondLoadingGone:
		return !st.Loading
	case domain.CondCreatedOrList:
		if st.Banner != nil && st.Banner.Kind == domain.BannerSuccess {
			return true
		}
		// A return to the list or empty state also satisfies the contract,
		// but only once the creation form is gone.
		return st.Form == nil && !st.Loading && st.List != nil
	case domain.CondValidationError:
		return st.ValidationShown()
	}
	return false
}

// stateAfter maps a satisfied condition to the scenario state it lands in.
func stateAfter(c domain.Condition, st domain.SurfaceState) domain.ScenarioState {
	switch c {
	case domain.CondConfigured:
		return domain.StateConfigured
	case domain.CondConfigError:
		return domain.StateConfigError
	case domain.CondValidationError:
		return domain.StateValidationError
	case domain.CondCreatedOrList:
		return domain.StateCreated
	case domain.CondListOrEmpty, domain.CondPopulated, domain.CondEmpty, domain.CondLoadingGone:
		if st.List != nil && st.List.Empty {
			return domain.StateEmpty
		}
		return domain.StatePopulated
	}
	return domain.StateListing
}
