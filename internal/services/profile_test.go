package services

import (
	"testing"

	"github.com/yungbote/a2p-backend/internal/domain/consent"
	"github.com/yungbote/a2p-backend/internal/domain/profile"
)

func TestReadableAt(t *testing.T) {
	scoped := []consent.PermissionLevel{consent.PermissionReadScoped}
	full := []consent.PermissionLevel{consent.PermissionReadFull}
	proposeOnly := []consent.PermissionLevel{consent.PermissionPropose}

	cases := []struct {
		name  string
		s     profile.Sensitivity
		perms []consent.PermissionLevel
		want  bool
	}{
		{"public under scoped read", profile.SensitivityPublic, scoped, true},
		{"scoped under scoped read", profile.SensitivityScoped, scoped, true},
		{"sensitive under scoped read", profile.SensitivitySensitive, scoped, false},
		{"sensitive under full read", profile.SensitivitySensitive, full, true},
		{"scoped with no read level", profile.SensitivityScoped, proposeOnly, false},
		{"prohibited under full read", profile.SensitivityProhibited, full, false},
	}
	for _, tc := range cases {
		if got := readableAt(tc.s, tc.perms); got != tc.want {
			t.Fatalf("%s: readableAt = %v, want %v", tc.name, got, tc.want)
		}
	}
}
