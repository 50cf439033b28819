package review

import (
	"github.com/phrazzld/shop-api/internal/domain"
	"github.com/phrazzld/shop-api/internal/store"
)

// toEntity stores the review date as its UTC calendar day, whatever time of
// day or offset the caller supplied.
func toEntity(r domain.Review) store.ReviewEntity {
	return store.ReviewEntity{
		Version:   r.Version,
		ProductID: r.ProductID,
		ReviewID:  r.ReviewID,
		Author:    r.Author,
		Subject:   r.Subject,
		Content:   r.Content,
		Rating:    r.Rating,
		Date:      domain.Day(r.Date),
	}
}

func fromEntity(e store.ReviewEntity) domain.Review {
	return domain.Review{
		ProductID: e.ProductID,
		ReviewID:  e.ReviewID,
		Author:    e.Author,
		Subject:   e.Subject,
		Content:   e.Content,
		Rating:    e.Rating,
		Date:      e.Date,
		Version:   e.Version,
	}
}
