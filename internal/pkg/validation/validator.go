package validation

import (
	"reflect"
	"strconv"
	"strings"
	"time"

	validatorv10 "github.com/go-playground/validator/v10"

	"github.com/polkiloo/bloomorders/internal/domain/model"
)

// New returns a validator with the order enum, timestamp and price tags registered.
func New() *validatorv10.Validate {
	v := validatorv10.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	mustRegister(v, "order_status", func(fl validatorv10.FieldLevel) bool {
		return model.OrderStatus(fl.Field().String()).Valid()
	})
	mustRegister(v, "pickup_delivery", func(fl validatorv10.FieldLevel) bool {
		return model.PickupDelivery(fl.Field().String()).Valid()
	})
	mustRegister(v, "payment_status", func(fl validatorv10.FieldLevel) bool {
		return model.PaymentStatus(fl.Field().String()).Valid()
	})
	mustRegister(v, "timestamp", func(fl validatorv10.FieldLevel) bool {
		_, err := model.ParseTimestamp(fl.Field().String(), time.UTC)
		return err == nil
	})
	mustRegister(v, "price", func(fl validatorv10.FieldLevel) bool {
		p, err := strconv.ParseFloat(strings.TrimSpace(fl.Field().String()), 64)
		return err == nil && p >= 0
	})

	return v
}

func mustRegister(v *validatorv10.Validate, tag string, fn validatorv10.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(err)
	}
}

// Fields flattens validation errors into field -> tag pairs.
func Fields(err error) map[string]string {
	out := map[string]string{}
	if ve, ok := err.(validatorv10.ValidationErrors); ok {
		for _, fe := range ve {
			out[fe.Field()] = fe.Tag()
		}
	} else if err != nil {
		out["error"] = err.Error()
	}
	return out
}
