package validation

import (
	"context"
	"net/url"
	"strconv"
)

// ActionChangePassword is the `action` value submitted by the password form.
const ActionChangePassword = "changePassword"

// EmailRegistry answers the store-backed email questions asked by the rules.
type EmailRegistry interface {
	EmailExists(ctx context.Context, email string) (bool, error)
	EmailOwnedByOther(ctx context.Context, email string, accountID int) (bool, error)
}

// AccountID reads the target account id of an update form, 0 when absent.
func AccountID(form url.Values) int {
	raw := form.Get("clientId")
	if raw == "" {
		raw = form.Get("account_id")
	}
	id, _ := strconv.Atoi(raw)
	return id
}

// RegistrationRules validates the registration form.
func RegistrationRules(accounts EmailRegistry) RuleSet {
	return RuleSet{
		Body("account_firstname").Trim().Escape().
			Required("Please provide a first name.").
			MinLength(1, "Please provide a first name."),
		Body("account_lastname").Trim().Escape().
			Required("Please provide a last name.").
			MinLength(2, "Please provide a last name."),
		Body("account_email").Trim().
			IsEmail("A valid email is required.").
			NormalizeEmail().
			Custom("Email exists. Please log in or use different email", func(ctx context.Context, email string, _ url.Values) (bool, error) {
				exists, err := accounts.EmailExists(ctx, email)
				return !exists, err
			}),
		Body("account_password").Trim().
			Required("Password does not meet requirements.").
			StrongPassword("Password does not meet requirements."),
	}
}

// LoginRules validates the login form.
func LoginRules() RuleSet {
	return RuleSet{
		Body("account_email").Trim().
			IsEmail("A valid email is required.").
			NormalizeEmail(),
		Body("account_password").Trim().
			Required("Password is required."),
	}
}

// AccountUpdateRules validates the profile part of the update form. They
// apply whatever the action.
func AccountUpdateRules(accounts EmailRegistry) RuleSet {
	return RuleSet{
		Body("clientFirstname").Trim().Escape().
			Required("Please provide a first name (at least 2 characters).").
			MinLength(2, "Please provide a first name (at least 2 characters)."),
		Body("clientLastname").Trim().Escape().
			Required("Please provide a last name (at least 2 characters).").
			MinLength(2, "Please provide a last name (at least 2 characters)."),
		Body("clientEmail").Trim().
			IsEmail("A valid email is required.").
			NormalizeEmail().
			Custom("The provided email is already in use.", func(ctx context.Context, email string, form url.Values) (bool, error) {
				taken, err := accounts.EmailOwnedByOther(ctx, email, AccountID(form))
				return !taken, err
			}),
	}
}

const passwordRequirements = "Password does not meet requirements. Must be at least 12 characters and include uppercase, lowercase, number, and special character."

func isPasswordChange(form url.Values) bool {
	return form.Get("action") == ActionChangePassword
}

// PasswordRules validates the password change; inactive unless the form's
// action is changePassword.
func PasswordRules() RuleSet {
	return RuleSet{
		Body("clientPassword").If(isPasswordChange).Trim().
			Required(passwordRequirements).
			StrongPassword(passwordRequirements),
		Body("confirmPassword").If(isPasswordChange).Trim().
			Equals("clientPassword", "Password confirmation does not match the new password."),
	}
}

// UpdateRules is the combined chain registered on the account update route.
func UpdateRules(accounts EmailRegistry) RuleSet {
	return append(AccountUpdateRules(accounts), PasswordRules()...)
}
