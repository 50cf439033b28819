package api

import (
	"time"

	"github.com/phrazzld/shop-api/internal/domain"
)

// ProductRequest is the body of POST /product and PUT /product/{productId}.
// Presence is checked here; the product rules are checked by the service.
type ProductRequest struct {
	ProductID *int   `json:"productId" validate:"required"`
	Name      string `json:"name"`
	Weight    *int   `json:"weight"    validate:"required"`
	Version   int    `json:"version"`
}

// ProductResponse is a product as returned by the API.
type ProductResponse struct {
	ProductID      int    `json:"productId"`
	Name           string `json:"name"`
	Weight         int    `json:"weight"`
	Version        int    `json:"version"`
	ServiceAddress string `json:"serviceAddress,omitempty"`
}

// ReviewRequest is the body of POST /review and PUT /review.
type ReviewRequest struct {
	ProductID *int   `json:"productId" validate:"required"`
	ReviewID  *int   `json:"reviewId"  validate:"required"`
	Author    string `json:"author"`
	Subject   string `json:"subject"`
	Content   string `json:"content"`
	Rating    *int   `json:"rating"    validate:"required"`
	// Date is a calendar day, formatted as domain.DateLayout.
	Date    string `json:"date"    validate:"required,datetime=2006-01-02"`
	Version int    `json:"version"`
}

// ReviewResponse is a review as returned by the API.
type ReviewResponse struct {
	ProductID      int    `json:"productId"`
	ReviewID       int    `json:"reviewId"`
	Author         string `json:"author"`
	Subject        string `json:"subject"`
	Content        string `json:"content"`
	Rating         int    `json:"rating"`
	Date           string `json:"date"`
	Version        int    `json:"version"`
	ServiceAddress string `json:"serviceAddress,omitempty"`
}

func (req ProductRequest) toDomain() domain.Product {
	return domain.Product{
		ProductID: *req.ProductID,
		Name:      req.Name,
		Weight:    *req.Weight,
		Version:   req.Version,
	}
}

func productToResponse(p domain.Product) ProductResponse {
	return ProductResponse{
		ProductID:      p.ProductID,
		Name:           p.Name,
		Weight:         p.Weight,
		Version:        p.Version,
		ServiceAddress: p.ServiceAddress,
	}
}

// toDomain assumes the request passed validation, so Date parses.
func (req ReviewRequest) toDomain() domain.Review {
	date, _ := time.Parse(domain.DateLayout, req.Date)
	return domain.Review{
		ProductID: *req.ProductID,
		ReviewID:  *req.ReviewID,
		Author:    req.Author,
		Subject:   req.Subject,
		Content:   req.Content,
		Rating:    *req.Rating,
		Date:      domain.Day(date),
		Version:   req.Version,
	}
}

func reviewToResponse(r domain.Review) ReviewResponse {
	return ReviewResponse{
		ProductID:      r.ProductID,
		ReviewID:       r.ReviewID,
		Author:         r.Author,
		Subject:        r.Subject,
		Content:        r.Content,
		Rating:         r.Rating,
		Date:           r.Date.Format(domain.DateLayout),
		Version:        r.Version,
		ServiceAddress: r.ServiceAddress,
	}
}
