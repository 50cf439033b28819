package domain

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
)

// Violation names a single field that failed a rule and the reason.
type Violation struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// String renders the violation as "field: message".
func (v Violation) String() string {
	return v.Field + ": " + v.Message
}

// Violations is the ordered result of validating an entity. An empty
// Violations means the entity is valid.
type Violations []Violation

// Error joins all violations in rule order.
func (v Violations) Error() string {
	parts := make([]string, len(v))
	for i, violation := range v {
		parts[i] = violation.String()
	}
	return strings.Join(parts, ", ")
}

// Is reports ErrValidation so that Violations can be matched with errors.Is.
func (v Violations) Is(target error) bool {
	return target == ErrValidation
}

// Err returns nil for an empty set and the violations otherwise.
func (v Violations) Err() error {
	if len(v) == 0 {
		return nil
	}
	return v
}

// Fields returns the offending field names in rule order.
func (v Violations) Fields() []string {
	fields := make([]string, len(v))
	for i, violation := range v {
		fields[i] = violation.Field
	}
	return fields
}

// validate is the shared rule engine. Rules are evaluated one field value at a
// time with Var so that the order of evaluation is explicit in each entity's
// rule list rather than derived from struct tags.
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// ALLOW-PANIC: registration only fails for an empty tag or nil func
	if err := v.RegisterValidation("notblank", validators.NotBlank); err != nil {
		panic(fmt.Sprintf("register notblank validation: %v", err))
	}
	return v
}

// rule is one field check: the validator tag to evaluate and the message
// reported when it fails.
type rule struct {
	field   string
	value   any
	tag     string
	message string
}

func minRule(field string, value, bound int) rule {
	return rule{field, value, fmt.Sprintf("gte=%d", bound), fmt.Sprintf("must be greater than or equal to %d", bound)}
}

func maxRule(field string, value, bound int) rule {
	return rule{field, value, fmt.Sprintf("lte=%d", bound), fmt.Sprintf("must be less than or equal to %d", bound)}
}

func notBlankRule(field, value string) rule {
	return rule{field, value, "notblank", "must not be blank"}
}

// sizeRule checks the length in runes against the closed interval [lower, upper].
func sizeRule(field, value string, lower, upper int) rule {
	return rule{field, value, fmt.Sprintf("min=%d,max=%d", lower, upper), fmt.Sprintf("size must be between %d and %d", lower, upper)}
}

func requiredRule(field string, value any) rule {
	return rule{field, value, "required", "must not be null"}
}

// check evaluates every rule and collects the failures. It never stops at the
// first failing rule.
func check(rules ...rule) Violations {
	var violations Violations
	for _, r := range rules {
		if err := validate.Var(r.value, r.tag); err != nil {
			violations = append(violations, Violation{Field: r.field, Message: r.message})
		}
	}
	return violations
}

// ValidateProductID checks a product id used as a lookup key.
// Zero is a valid identifier.
func ValidateProductID(productID int) error {
	if v := check(minRule("productId", productID, 0)); len(v) > 0 {
		return fmt.Errorf("%w: productId %d", ErrInvalidKey, productID)
	}
	return nil
}
