package repository

import (
	"errors"
	"fmt"
	"strings"

	"lodgr/pkg/database"

	"go.uber.org/zap"
)

type Repository struct {
	User     UserRepository
	Session  SessionRepository
	Property PropertyRepository
	Review   ReviewRepository
	Booking  BookingRepository
	Payment  PaymentRepository
}

func NewRepository(db database.PgxIface, log *zap.Logger) *Repository {
	return &Repository{
		User:     NewUserRepository(db, log),
		Session:  NewSessionRepository(db, log),
		Property: NewPropertyRepository(db, log),
		Review:   NewReviewRepository(db, log),
		Booking:  NewBookingRepository(db, log),
		Payment:  NewPaymentRepository(db, log),
	}
}

// scanner is satisfied by both pgx.Row and pgx.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// whereBuilder accumulates numbered placeholders for optional filters.
type whereBuilder struct {
	clauses []string
	args    []any
}

func (w *whereBuilder) add(clause string, arg any) {
	w.args = append(w.args, arg)
	w.clauses = append(w.clauses, fmt.Sprintf(clause, len(w.args)))
}

func (w *whereBuilder) sql() string {
	if len(w.clauses) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(w.clauses, " AND ")
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern turns free text into an ILIKE pattern that matches it
// literally anywhere in the column. Pair it with ESCAPE '\'.
func containsPattern(text string) string {
	return "%" + likeEscaper.Replace(text) + "%"
}

// page appends LIMIT/OFFSET placeholders and returns the clause.
func (w *whereBuilder) page(limit, offset int) string {
	w.args = append(w.args, limit, offset)
	return fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(w.args)-1, len(w.args))
}

// ErrNoRowsAffected is returned by updates and deletes that matched nothing.
var ErrNoRowsAffected = errors.New("not found")

// ErrMissingReference is returned by inserts whose foreign key points at a
// row that no longer exists.
var ErrMissingReference = errors.New("referenced row does not exist")
