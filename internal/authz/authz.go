// Package authz centralizes the role/scope rules for every write operation,
// replacing per-handler string checks with a single capability function.
package authz

import (
	"npl-dashboard/internal/account/model"
	"npl-dashboard/pkg/utils"
)

type Action int

const (
	// ActionRegisterAccount is creating an account with an explicit role and scope.
	ActionRegisterAccount Action = iota
	// ActionAssignCountyCoordinator is creating or rescoping a county coordinator.
	ActionAssignCountyCoordinator
	// ActionUpdateTractMetrics is the transactional tract metrics upsert,
	// with or without a coordinator payload.
	ActionUpdateTractMetrics
)

// Target identifies the scope an action operates on. Unused fields stay empty.
type Target struct {
	Role     string
	Countyfp string
	Tractid  string
}

// Can reports whether the caller may perform the action on the target.
//
// state is unrestricted. county may create tract accounts and write tract
// metrics only within its own county; the county of a tract is derived from
// the GEOID (digits 3-5 of the 11-digit id). tract may write only its own
// tract. coordinator holds no write capability.
func Can(caller *utils.Claims, action Action, target Target) bool {
	if caller == nil {
		return false
	}

	switch caller.Role {
	case model.RoleState:
		return true

	case model.RoleCounty:
		switch action {
		case ActionRegisterAccount:
			return target.Role == model.RoleTract &&
				target.Countyfp != "" &&
				target.Countyfp == caller.Countyfp
		case ActionUpdateTractMetrics:
			county := CountyOfTract(target.Tractid)
			return county != "" && county == caller.Countyfp
		default:
			return false
		}

	case model.RoleTract:
		return action == ActionUpdateTractMetrics &&
			target.Tractid != "" &&
			target.Tractid == caller.Tractid

	default:
		return false
	}
}

// CountyOfTract extracts the 3-digit county FP from an 11-digit census tract
// GEOID (2-digit state + 3-digit county + 6-digit tract). Returns "" for ids
// of any other length.
func CountyOfTract(tractid string) string {
	if len(tractid) != 11 {
		return ""
	}
	return tractid[2:5]
}
