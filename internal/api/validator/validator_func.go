package validator

import (
	"github.com/Behyna/whatsapp-relay/internal/model"
	"github.com/Behyna/whatsapp-relay/pkg/phone"
	"github.com/go-playground/validator/v10"
)

const (
	PhoneTag         = "phone"
	ContactStatusTag = "contact_status"
)

var valid = map[string]func(fl validator.FieldLevel) bool{
	PhoneTag:         ValidatePhone,
	ContactStatusTag: ValidateContactStatus,
}

func ValidatePhone(fl validator.FieldLevel) bool {
	return phone.IsValid(fl.Field().String())
}

// ValidateContactStatus accepts an empty value; pair it with required when
// the status is mandatory.
func ValidateContactStatus(fl validator.FieldLevel) bool {
	status := fl.Field().String()
	return status == "" || model.ContactStatus(status).Valid()
}
