package validation

import "testing"

func TestValidatePassword(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		password string
		wantErr  bool
	}{
		{"valid", "romper-el-ciclo-9", false},
		{"too short", "corta", true},
		{"contains common word", "mypassword99", true},
		{"contains contrasena", "ContraSena2024!", true},
		{"minimum length", "8caract!", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := ValidatePassword(tt.password)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePassword(%q) = %v, wantErr %v", tt.password, err, tt.wantErr)
			}
		})
	}
}

func TestValidateEmail(t *testing.T) {
	t.Parallel()

	if err := ValidateEmail("ana@example.com"); err != nil {
		t.Errorf("valid email rejected: %v", err)
	}
	for _, bad := range []string{"", "no-arroba", "a@"} {
		if err := ValidateEmail(bad); err == nil {
			t.Errorf("ValidateEmail(%q) accepted", bad)
		}
	}
}

func TestValidateName(t *testing.T) {
	t.Parallel()

	if err := ValidateName("  Ana  "); err != nil {
		t.Errorf("valid name rejected: %v", err)
	}
	if err := ValidateName("   "); err == nil {
		t.Error("blank name accepted")
	}
}
