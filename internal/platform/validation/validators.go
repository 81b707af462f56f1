package validation

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	bookingdomain "github.com/durgapur-services/marketplace-backend/internal/booking/domain"
	catalogdomain "github.com/durgapur-services/marketplace-backend/internal/catalog/domain"
)

// Indian mobile or landline, optionally with +91 and separators.
var phoneRegex = regexp.MustCompile(`^\+?[0-9][0-9 \-]{6,16}[0-9]$`)

// RegisterValidators registers the custom tags on v.
func RegisterValidators(v *validator.Validate) {
	_ = v.RegisterValidation("category", ValidCategory)
	_ = v.RegisterValidation("phone", ValidPhone)
	_ = v.RegisterValidation("order_status", ValidOrderStatus)
}

// New returns a validator with the custom tags registered.
func New() *validator.Validate {
	v := validator.New()
	RegisterValidators(v)
	return v
}

// RegisterWithGin adds the custom tags to gin's binding validator so
// ShouldBind* honours them.
func RegisterWithGin() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return fmt.Errorf("unexpected gin validator engine %T", binding.Validator.Engine())
	}
	RegisterValidators(v)
	return nil
}

// ValidCategory accepts one of the fixed service categories.
func ValidCategory(fl validator.FieldLevel) bool {
	val := fl.Field().String()
	if val == "" {
		return true
	}
	return catalogdomain.Category(val).IsValid()
}

func ValidPhone(fl validator.FieldLevel) bool {
	val := strings.TrimSpace(fl.Field().String())
	if val == "" {
		return true
	}
	return phoneRegex.MatchString(val)
}

func ValidOrderStatus(fl validator.FieldLevel) bool {
	_, err := bookingdomain.ParseStatus(fl.Field().String())
	return err == nil
}
