package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgxpool"

	"smart-bookmarks/internal/domain"
)

// ErrBookmarkNotFound cubre tanto id inexistente como fila de otro dueño:
// el borrado siempre filtra por id Y user_id, asi que ambos casos son
// indistinguibles para el llamador.
var ErrBookmarkNotFound = errors.New("bookmark not found")

// BookmarkRepository define el contrato de persistencia para marcadores.
// Toda operacion esta delimitada por el dueño; nunca se expone una fila
// de otro usuario.
type BookmarkRepository interface {
	ListByOwner(ctx context.Context, userID string) ([]domain.Bookmark, error)
	Insert(ctx context.Context, bookmark domain.Bookmark) (domain.Bookmark, error)
	Delete(ctx context.Context, id, userID string) error
}

// PgBookmarkRepository implementa BookmarkRepository usando pgxpool.
type PgBookmarkRepository struct {
	pool *pgxpool.Pool
}

func NewPgBookmarkRepository(pool *pgxpool.Pool) *PgBookmarkRepository {
	return &PgBookmarkRepository{pool: pool}
}

func (r *PgBookmarkRepository) ListByOwner(ctx context.Context, userID string) ([]domain.Bookmark, error) {
	const query = `
		SELECT id, user_id, title, url, created_at
		FROM bookmarks
		WHERE user_id = $1
		ORDER BY created_at DESC
	`
	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	// Sin filas no es un error: el usuario simplemente no tiene marcadores.
	bookmarks := []domain.Bookmark{}
	for rows.Next() {
		var b domain.Bookmark
		if err := rows.Scan(&b.ID, &b.UserID, &b.Title, &b.URL, &b.CreatedAt); err != nil {
			return nil, err
		}
		bookmarks = append(bookmarks, b)
	}
	return bookmarks, rows.Err()
}

func (r *PgBookmarkRepository) Insert(ctx context.Context, bookmark domain.Bookmark) (domain.Bookmark, error) {
	const query = `
		INSERT INTO bookmarks (id, user_id, title, url, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, user_id, title, url, created_at
	`
	var b domain.Bookmark
	err := r.pool.QueryRow(ctx, query,
		bookmark.ID,
		bookmark.UserID,
		bookmark.Title,
		bookmark.URL,
		bookmark.CreatedAt,
	).Scan(&b.ID, &b.UserID, &b.Title, &b.URL, &b.CreatedAt)
	if err != nil {
		return domain.Bookmark{}, err
	}
	return b, nil
}

func (r *PgBookmarkRepository) Delete(ctx context.Context, id, userID string) error {
	const query = `
		DELETE FROM bookmarks
		WHERE id = $1 AND user_id = $2
	`
	tag, err := r.pool.Exec(ctx, query, id, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrBookmarkNotFound
	}
	return nil
}
