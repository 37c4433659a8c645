package repository

import (
	"context"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/noah-isme/campus-registry-api/internal/models"
	appErrors "github.com/noah-isme/campus-registry-api/pkg/errors"
)

const libraryFile = "library.json"

// LibraryRepository owns the book catalog and outstanding loans.
type LibraryRepository struct {
	mu    sync.RWMutex
	books map[string]*models.Book
	loans []models.Loan
}

// NewLibraryRepository constructs an empty catalog.
func NewLibraryRepository() *LibraryRepository {
	return &LibraryRepository{books: make(map[string]*models.Book)}
}

// Search matches the query as a case-insensitive substring of isbn, title or
// author. An empty query returns the full catalog.
func (r *LibraryRepository) Search(ctx context.Context, query string) []models.Book {
	r.mu.RLock()
	defer r.mu.RUnlock()
	q := strings.ToLower(query)
	out := make([]models.Book, 0, len(r.books))
	for _, book := range r.books {
		if q == "" || strings.Contains(strings.ToLower(book.ISBN), q) ||
			strings.Contains(strings.ToLower(book.Title), q) ||
			strings.Contains(strings.ToLower(book.Author), q) {
			out = append(out, *book)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ISBN < out[j].ISBN })
	return out
}

// Borrow checks out one copy for the student.
func (r *LibraryRepository) Borrow(ctx context.Context, isbn, studentID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	book, ok := r.books[isbn]
	if !ok {
		return appErrors.Clone(appErrors.ErrNotFound, "book not found")
	}
	for _, loan := range r.loans {
		if loan.ISBN == isbn && loan.StudentID == studentID {
			return appErrors.Clone(appErrors.ErrValidation, "copy already on loan to student")
		}
	}
	if book.Available <= 0 {
		return appErrors.ErrBookUnavailable
	}
	book.Available--
	r.loans = append(r.loans, models.Loan{ISBN: isbn, StudentID: studentID, BorrowedAt: time.Now().UTC()})
	return nil
}

// Return checks a copy back in.
func (r *LibraryRepository) Return(ctx context.Context, isbn, studentID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	book, ok := r.books[isbn]
	if !ok {
		return appErrors.Clone(appErrors.ErrNotFound, "book not found")
	}
	for i, loan := range r.loans {
		if loan.ISBN == isbn && loan.StudentID == studentID {
			r.loans = append(r.loans[:i], r.loans[i+1:]...)
			if book.Available < book.Copies {
				book.Available++
			}
			return nil
		}
	}
	return appErrors.Clone(appErrors.ErrValidation, "no matching loan for student")
}

// Snapshot returns books and loans for persistence.
func (r *LibraryRepository) Snapshot() ([]models.Book, []models.Loan) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	books := make([]models.Book, 0, len(r.books))
	for _, book := range r.books {
		books = append(books, *book)
	}
	sort.Slice(books, func(i, j int) bool { return books[i].ISBN < books[j].ISBN })
	loans := append([]models.Loan(nil), r.loans...)
	return books, loans
}

// Restore replaces the catalog and loan contents.
func (r *LibraryRepository) Restore(books []models.Book, loans []models.Loan) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.books = make(map[string]*models.Book, len(books))
	for _, book := range books {
		b := book
		if b.Available > b.Copies {
			b.Available = b.Copies
		}
		r.books[b.ISBN] = &b
	}
	r.loans = append([]models.Loan(nil), loans...)
}

// libraryFileShape is the on-disk layout of library.json.
type libraryFileShape struct {
	Books []models.Book `json:"books"`
	Loans []models.Loan `json:"loans"`
}

// LoadLibraryData reads the book catalog and loans from the data dir.
func LoadLibraryData(dir string) ([]models.Book, []models.Loan, error) {
	var shape libraryFileShape
	if err := readJSONFile(filepath.Join(dir, libraryFile), &shape); err != nil {
		return nil, nil, err
	}
	return shape.Books, shape.Loans, nil
}

// SaveLibraryData writes the book catalog and loans to the data dir.
func SaveLibraryData(dir string, books []models.Book, loans []models.Loan) error {
	return writeJSONFile(filepath.Join(dir, libraryFile), libraryFileShape{Books: books, Loans: loans})
}
