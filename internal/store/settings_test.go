package store

import (
	"context"
	"testing"
)

func TestGetSetting_MissingKey(t *testing.T) {
	s := createTestStore(t)

	value, ok, err := s.GetSetting(context.Background(), SettingLanguage)
	if err != nil {
		t.Fatalf("GetSetting failed: %v", err)
	}
	if ok || value != "" {
		t.Errorf("missing key returned (%q, %v), want (\"\", false)", value, ok)
	}
}

func TestSetSetting_Overwrites(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	if err := s.SetSetting(ctx, SettingLanguage, "hi"); err != nil {
		t.Fatalf("SetSetting failed: %v", err)
	}
	if err := s.SetSetting(ctx, SettingLanguage, "mr"); err != nil {
		t.Fatalf("second SetSetting failed: %v", err)
	}

	value, ok, err := s.GetSetting(ctx, SettingLanguage)
	if err != nil {
		t.Fatalf("GetSetting failed: %v", err)
	}
	if !ok || value != "mr" {
		t.Errorf("GetSetting = (%q, %v), want (\"mr\", true)", value, ok)
	}
}

func TestSetDefaultSetting_DoesNotClobber(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	if err := s.SetSetting(ctx, SettingOnboardingDone, "1"); err != nil {
		t.Fatalf("SetSetting failed: %v", err)
	}
	if err := s.SetDefaultSetting(ctx, SettingOnboardingDone, "0"); err != nil {
		t.Fatalf("SetDefaultSetting failed: %v", err)
	}

	value, _, err := s.GetSetting(ctx, SettingOnboardingDone)
	if err != nil {
		t.Fatalf("GetSetting failed: %v", err)
	}
	if value != "1" {
		t.Errorf("SetDefaultSetting overwrote an existing value, got %q", value)
	}
}

func TestSetDefaultSetting_WritesWhenAbsent(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	if err := s.SetDefaultSetting(ctx, SettingLanguage, "gu"); err != nil {
		t.Fatalf("SetDefaultSetting failed: %v", err)
	}

	value, ok, err := s.GetSetting(ctx, SettingLanguage)
	if err != nil {
		t.Fatalf("GetSetting failed: %v", err)
	}
	if !ok || value != "gu" {
		t.Errorf("GetSetting = (%q, %v), want (\"gu\", true)", value, ok)
	}
}
