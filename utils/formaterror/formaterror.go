package formaterror

import "strings"

// FormatError maps store and credential errors onto field-keyed messages
// suitable for a validation response.
func FormatError(err string) map[string]string {
	errorMessages := make(map[string]string)
	lower := strings.ToLower(err)

	if strings.Contains(lower, "username") {
		errorMessages["Taken_username"] = "Username Already Taken"
	}
	if strings.Contains(lower, "email") {
		errorMessages["Taken_email"] = "Email Already Taken"
	}
	if strings.Contains(lower, "hashedpassword") {
		errorMessages["Incorrect_password"] = "Incorrect Password"
	}
	if strings.Contains(lower, "record not found") {
		errorMessages["No_record"] = "No Record Found"
	}

	if len(errorMessages) == 0 {
		errorMessages["Incorrect_details"] = "Incorrect Details"
	}
	return errorMessages
}
