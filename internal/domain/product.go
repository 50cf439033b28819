package domain

// Product bounds used by Validate.
const (
	ProductNameMinLength = 5
	ProductNameMaxLength = 100
	ProductMinWeight     = 1
)

// Product is the caller-facing representation of a catalog item.
// ServiceAddress is transient: it is filled in on reads by the service that
// answered and is never persisted.
type Product struct {
	ProductID      int    `json:"productId"`
	Name           string `json:"name"`
	Weight         int    `json:"weight"`
	Version        int    `json:"version"`
	ServiceAddress string `json:"serviceAddress,omitempty"`
}

// Validate checks every product rule and returns all violations in rule order.
func (p Product) Validate() Violations {
	return check(
		minRule("productId", p.ProductID, 0),
		notBlankRule("name", p.Name),
		sizeRule("name", p.Name, ProductNameMinLength, ProductNameMaxLength),
		minRule("weight", p.Weight, ProductMinWeight),
	)
}

// WithServiceAddress returns a copy of the product stamped with addr.
func (p Product) WithServiceAddress(addr string) Product {
	p.ServiceAddress = addr
	return p
}
