package service

import (
	"errors"

	"github.com/go-playground/validator/v10"

	"github.com/sui-chat/api/internal/model"
)

const (
	msgAddressRequired = "Address is required"
	msgPairRequired    = "Address and friendAddress are required"
	msgSelfFriend      = "Cannot add yourself as a friend"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

type addressRequest struct {
	Address string `validate:"required"`
}

type friendPairRequest struct {
	Address       string `validate:"required"`
	FriendAddress string `validate:"required"`
}

type addFriendRequest struct {
	Address       string `validate:"required"`
	FriendAddress string `validate:"required,nefield=Address"`
}

// check validates req and converts failures into a *model.ValidationError.
// A missing field wins over the self-friend check.
func check(req any, requiredMsg string) error {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return model.NewValidationError(err.Error())
	}
	for _, fe := range fieldErrs {
		if fe.Tag() == "required" {
			return model.NewValidationError(requiredMsg)
		}
	}
	for _, fe := range fieldErrs {
		if fe.Tag() == "nefield" {
			return model.NewValidationError(msgSelfFriend)
		}
	}
	return model.NewValidationError(requiredMsg)
}
