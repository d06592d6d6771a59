package firestoredb

import (
	"sort"
	"time"

	"rescue/internal/domain"
)

type caseDoc struct {
	AnimalType  string    `firestore:"animalType"`
	Title       string    `firestore:"title"`
	Description string    `firestore:"description"`
	Location    string    `firestore:"location"`
	Severity    string    `firestore:"severity"`
	ImageURL    string    `firestore:"imageUrl"`
	Goal        int64     `firestore:"goal"`
	Raised      int64     `firestore:"raised"`
	UserID      string    `firestore:"userId"`
	Status      string    `firestore:"status"`
	CreatedAt   time.Time `firestore:"createdAt,serverTimestamp"`
}

func newCaseDoc(c *domain.Case) caseDoc {
	return caseDoc{
		AnimalType:  c.AnimalType,
		Title:       c.Title,
		Description: c.Description,
		Location:    c.Location,
		Severity:    string(c.Severity),
		ImageURL:    c.ImageURL,
		Goal:        c.Goal,
		Raised:      0,
		UserID:      c.UserID,
		Status:      string(domain.CaseStatusOpen),
	}
}

// toCase converts a stored document. Documents whose server timestamp has
// not been written yet report now as their creation time.
func (d caseDoc) toCase(id string, now time.Time) domain.Case {
	created := d.CreatedAt
	if created.IsZero() {
		created = now
	}
	return domain.Case{
		ID:          id,
		AnimalType:  d.AnimalType,
		Title:       d.Title,
		Description: d.Description,
		Location:    d.Location,
		Severity:    domain.Severity(d.Severity),
		ImageURL:    d.ImageURL,
		Goal:        d.Goal,
		Raised:      d.Raised,
		UserID:      d.UserID,
		Status:      domain.CaseStatus(d.Status),
		CreatedAt:   created,
	}
}

// sortNewestFirst orders cases by CreatedAt descending, ties by id descending.
func sortNewestFirst(items []domain.Case) {
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].CreatedAt.Equal(items[j].CreatedAt) {
			return items[i].ID > items[j].ID
		}
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})
}

type donationDoc struct {
	UserID    string    `firestore:"userId"`
	Amount    int64     `firestore:"amount"`
	Method    string    `firestore:"method"`
	CreatedAt time.Time `firestore:"createdAt"`
}

type userDoc struct {
	Email        string    `firestore:"email"`
	PasswordHash []byte    `firestore:"passwordHash"`
	CreatedAt    time.Time `firestore:"createdAt"`
	LastLoginAt  time.Time `firestore:"lastLoginAt"`
}

func (d userDoc) toUser(id string) *domain.User {
	return &domain.User{
		ID:           id,
		Email:        d.Email,
		PasswordHash: d.PasswordHash,
		CreatedAt:    d.CreatedAt,
		LastLoginAt:  d.LastLoginAt,
	}
}

type sessionDoc struct {
	UserID    string     `firestore:"userId"`
	CreatedAt time.Time  `firestore:"createdAt"`
	ExpiresAt time.Time  `firestore:"expiresAt"`
	RevokedAt *time.Time `firestore:"revokedAt,omitempty"`
}
