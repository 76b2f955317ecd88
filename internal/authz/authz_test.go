package authz

import (
	"testing"

	"npl-dashboard/pkg/utils"

	"github.com/stretchr/testify/assert"
)

func claims(role, countyfp, tractid string) *utils.Claims {
	return &utils.Claims{Role: role, Countyfp: countyfp, Tractid: tractid}
}

func TestStateIsUnrestricted(t *testing.T) {
	caller := claims("state", "", "")

	assert.True(t, Can(caller, ActionRegisterAccount, Target{Role: "county", Countyfp: "031"}))
	assert.True(t, Can(caller, ActionAssignCountyCoordinator, Target{Countyfp: "031"}))
	assert.True(t, Can(caller, ActionUpdateTractMetrics, Target{Tractid: "17031000100"}))
}

func TestCountyRegisterRules(t *testing.T) {
	caller := claims("county", "031", "")

	tests := []struct {
		name   string
		target Target
		want   bool
	}{
		{"tract account in own county", Target{Role: "tract", Countyfp: "031"}, true},
		{"tract account in other county", Target{Role: "tract", Countyfp: "043"}, false},
		{"county account in own county", Target{Role: "county", Countyfp: "031"}, false},
		{"state account", Target{Role: "state"}, false},
		{"missing county scope", Target{Role: "tract"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Can(caller, ActionRegisterAccount, tt.target))
		})
	}
}

func TestCountyTractMetricsScopedByGeoidPrefix(t *testing.T) {
	caller := claims("county", "031", "")

	assert.True(t, Can(caller, ActionUpdateTractMetrics, Target{Tractid: "17031000100"}))
	assert.False(t, Can(caller, ActionUpdateTractMetrics, Target{Tractid: "17043000100"}))
	// Short ids carry no county and are rejected.
	assert.False(t, Can(caller, ActionUpdateTractMetrics, Target{Tractid: "000100"}))
	assert.False(t, Can(caller, ActionAssignCountyCoordinator, Target{Countyfp: "031"}))
}

func TestTractLimitedToOwnTract(t *testing.T) {
	caller := claims("tract", "", "17031000100")

	assert.True(t, Can(caller, ActionUpdateTractMetrics, Target{Tractid: "17031000100"}))
	assert.False(t, Can(caller, ActionUpdateTractMetrics, Target{Tractid: "17031000200"}))
	assert.False(t, Can(caller, ActionRegisterAccount, Target{Role: "tract", Tractid: "17031000100"}))
}

func TestCoordinatorHasNoWriteCapability(t *testing.T) {
	caller := claims("coordinator", "", "")

	assert.False(t, Can(caller, ActionRegisterAccount, Target{Role: "tract"}))
	assert.False(t, Can(caller, ActionUpdateTractMetrics, Target{Tractid: "17031000100"}))
	assert.False(t, Can(nil, ActionUpdateTractMetrics, Target{Tractid: "17031000100"}))
}

func TestCountyOfTract(t *testing.T) {
	assert.Equal(t, "031", CountyOfTract("17031000100"))
	assert.Equal(t, "", CountyOfTract("000100"))
	assert.Equal(t, "", CountyOfTract(""))
}
