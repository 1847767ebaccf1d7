package recurrence

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/carson-networks/budget-ledger/internal/storage/subscription"
)

var ErrNonPositiveAmount = errors.New("amount must be greater than zero")

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	return v
}

type subscriptionRules struct {
	Name         string `validate:"required,notblank"`
	BillingCycle string `validate:"required,oneof=monthly yearly"`
	BillingDay   int    `validate:"min=1,max=31"`
	BillingMonth int    `validate:"required_if=BillingCycle yearly,min=0,max=12"`
}

// Validate checks that sub can be materialized. BillingMonth is ignored for
// monthly subscriptions.
func Validate(sub *subscription.Subscription) error {
	rules := subscriptionRules{
		Name:         sub.Name,
		BillingCycle: string(sub.BillingCycle),
		BillingDay:   sub.BillingDay,
		BillingMonth: sub.BillingMonth,
	}
	if sub.BillingCycle == subscription.CycleMonthly {
		rules.BillingMonth = 0
	}
	if err := validate.Struct(rules); err != nil {
		return err
	}
	if !sub.Amount.IsPositive() {
		return ErrNonPositiveAmount
	}
	return nil
}

// Describe flattens a validation error into one line per failed field.
func Describe(err error) string {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err.Error()
	}
	parts := make([]string, len(fieldErrs))
	for i, e := range fieldErrs {
		if e.Param() != "" {
			parts[i] = e.Field() + " failed " + e.Tag() + "=" + e.Param()
		} else {
			parts[i] = e.Field() + " failed " + e.Tag()
		}
	}
	return strings.Join(parts, "; ")
}
