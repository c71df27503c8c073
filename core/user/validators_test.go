package user

import (
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"

	"github.com/lumen-youth/lumen/core"
)

func newValidator() *validator.Validate {
	validate := validator.New()
	translator := core.NewTranslator()
	core.InitValidators(validate, translator)
	InitValidators(validate, translator)
	return validate
}

func TestNewUser_passwordPolicy(t *testing.T) {
	validate := newValidator()

	tests := []struct {
		name    string
		pwd     string
		wantTag string
	}{
		{name: "too short", pwd: "Ab1!", wantTag: pwdMinLenTag},
		{name: "whitespace", pwd: "Abcd 1234!", wantTag: pwdNoSpaceTag},
		{name: "all numeric", pwd: "1234567890", wantTag: pwdNotAllNumTag},
		{name: "no special", pwd: "Abcdefg1", wantTag: pwdComplexityTag},
		{name: "no upper", pwd: "abcdefg1!", wantTag: pwdComplexityTag},
		{name: "similar to username", pwd: "Grace_Hopper1", wantTag: pwdAttrSimTag},
		{name: "common", pwd: "P@ssw0rd", wantTag: pwdNoCommonTag},
		{name: "valid", pwd: "Gl0ri0us-Morning"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			nu := NewUser{
				Name:            "Grace Hopper",
				Username:        "grace_hopper",
				Email:           "grace@lumen.test",
				Password:        tt.pwd,
				PasswordConfirm: tt.pwd,
			}
			err := validate.Struct(nu)
			if tt.wantTag == "" {
				assert.NoError(t, err)
				return
			}
			if assert.Error(t, err) {
				verrs := err.(validator.ValidationErrors)
				assert.Equal(t, "password", verrs[0].Field())
				assert.Equal(t, tt.wantTag, verrs[0].Tag())
			}
		})
	}
}

func TestNewUser_usernameOrEmail(t *testing.T) {
	validate := newValidator()

	nu := NewUser{Name: "Anon", Password: "Gl0ri0us-Morning", PasswordConfirm: "Gl0ri0us-Morning"}
	err := validate.Struct(nu)
	if assert.Error(t, err) {
		fields := make([]string, 0)
		for _, fe := range err.(validator.ValidationErrors) {
			assert.Equal(t, usernameOrEmailTag, fe.Tag())
			fields = append(fields, fe.Field())
		}
		assert.ElementsMatch(t, []string{"username", "email"}, fields)
	}
}

func TestNewUser_roles(t *testing.T) {
	validate := newValidator()

	tests := []struct {
		name    string
		roles   []string
		wantErr bool
	}{
		{name: "none", roles: nil},
		{name: "admin", roles: AdminRoles},
		{name: "all", roles: AllRoles},
		{name: "unknown", roles: []string{RoleEditor, "owner:"}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			nu := NewUser{
				Name:            "Ada",
				Username:        "ada_l",
				Password:        "Gl0ri0us-Morning",
				PasswordConfirm: "Gl0ri0us-Morning",
				Roles:           tt.roles,
			}
			err := validate.Struct(nu)
			assert.Equal(t, tt.wantErr, err != nil, "err = %v", err)
		})
	}
}

func TestMaxRolePriority(t *testing.T) {
	assert.Equal(t, 0, MaxRolePriority(nil))
	assert.Equal(t, 10, MaxRolePriority(EditorRoles))
	assert.Equal(t, 20, MaxRolePriority(AllRoles))

	usr := User{Roles: EditorRoles}
	assert.True(t, usr.IsStaff())
	assert.False(t, usr.IsAdmin())
	assert.True(t, usr.Active())
	usr.SetActive(false)
	assert.False(t, usr.Active())
}
