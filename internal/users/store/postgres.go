package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"

	"github.com/ZafarDakhnairi/iGameDB/internal/users"
	"github.com/ZafarDakhnairi/iGameDB/pkg/platform/sentinel"
)

// Postgres persists user records in PostgreSQL. Wishlists live in their own
// table keyed (owner_id, game_id), which gives set semantics for free.
type Postgres struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed store over an open pool.
func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

const userColumns = `id, google_id, email, username, first_name, last_name, full_name,
	profile_picture, password_hash, gender, platforms, status, preferences, metadata,
	login_count, last_login, created_at, updated_at`

func (s *Postgres) Create(ctx context.Context, u *users.User) error {
	prefs, meta, err := marshalProfile(u)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO users (` + userColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
	`
	_, err = s.db.ExecContext(ctx, query,
		u.ID, nullString(u.GoogleID), strings.ToLower(u.Email), nullString(u.Username),
		u.FirstName, u.LastName, u.FullName, u.ProfilePicture, u.PasswordHash,
		u.Gender, pq.Array(u.Platforms), string(u.Status), prefs, meta,
		u.LoginCount, nullTime(u.LastLogin), u.CreatedAt, u.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

func (s *Postgres) Update(ctx context.Context, u *users.User) error {
	prefs, meta, err := marshalProfile(u)
	if err != nil {
		return err
	}

	query := `
		UPDATE users SET
			google_id = $2, email = $3, username = $4, first_name = $5, last_name = $6,
			full_name = $7, profile_picture = $8, password_hash = $9, gender = $10,
			platforms = $11, status = $12, preferences = $13, metadata = $14,
			login_count = $15, last_login = $16, updated_at = $17
		WHERE id = $1
	`
	res, err := s.db.ExecContext(ctx, query,
		u.ID, nullString(u.GoogleID), strings.ToLower(u.Email), nullString(u.Username),
		u.FirstName, u.LastName, u.FullName, u.ProfilePicture, u.PasswordHash,
		u.Gender, pq.Array(u.Platforms), string(u.Status), prefs, meta,
		u.LoginCount, nullTime(u.LastLogin), u.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("update user: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	if affected == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func (s *Postgres) FindByID(ctx context.Context, id string) (*users.User, error) {
	return s.findOne(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
}

func (s *Postgres) FindByGoogleID(ctx context.Context, googleID string) (*users.User, error) {
	return s.findOne(ctx, `SELECT `+userColumns+` FROM users WHERE google_id = $1`, googleID)
}

func (s *Postgres) FindByLogin(ctx context.Context, login string) (*users.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = lower($1) OR lower(username) = lower($1)`
	return s.findOne(ctx, query, login)
}

func (s *Postgres) findOne(ctx context.Context, query string, arg any) (*users.User, error) {
	row := s.db.QueryRowContext(ctx, query, arg)

	var (
		u            users.User
		googleID     sql.NullString
		username     sql.NullString
		status       string
		prefs, meta  []byte
		lastLogin    sql.NullTime
		platformsArr pq.StringArray
	)
	err := row.Scan(
		&u.ID, &googleID, &u.Email, &username, &u.FirstName, &u.LastName, &u.FullName,
		&u.ProfilePicture, &u.PasswordHash, &u.Gender, &platformsArr, &status, &prefs, &meta,
		&u.LoginCount, &lastLogin, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}

	u.GoogleID = googleID.String
	u.Username = username.String
	u.Status = users.Status(status)
	u.Platforms = []string(platformsArr)
	if lastLogin.Valid {
		t := lastLogin.Time
		u.LastLogin = &t
	}
	if len(prefs) > 0 {
		if err := json.Unmarshal(prefs, &u.Preferences); err != nil {
			return nil, fmt.Errorf("decode preferences: %w", err)
		}
	}
	if len(meta) > 0 {
		if err := json.Unmarshal(meta, &u.Metadata); err != nil {
			return nil, fmt.Errorf("decode metadata: %w", err)
		}
	}

	wishlist, err := s.ListWishlist(ctx, u.ID)
	if err != nil && !errors.Is(err, sentinel.ErrNotFound) {
		return nil, err
	}
	u.Wishlist = wishlist
	return &u, nil
}

func (s *Postgres) AddWishlistEntry(ctx context.Context, ownerID string, entry users.WishlistEntry) ([]users.WishlistEntry, error) {
	query := `
		INSERT INTO wishlist_entries (owner_id, game_id, title, platform, genres, reason, added_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (owner_id, game_id) DO NOTHING
	`
	_, err := s.db.ExecContext(ctx, query,
		ownerID, entry.GameID, entry.Title, entry.Platform, pq.Array(entry.Genres), entry.Reason, entry.AddedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("add wishlist entry: %w", err)
	}
	return s.ListWishlist(ctx, ownerID)
}

func (s *Postgres) RemoveWishlistEntry(ctx context.Context, ownerID string, gameID int64) ([]users.WishlistEntry, error) {
	if err := s.ownerExists(ctx, ownerID); err != nil {
		return nil, err
	}
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM wishlist_entries WHERE owner_id = $1 AND game_id = $2`, ownerID, gameID)
	if err != nil {
		return nil, fmt.Errorf("remove wishlist entry: %w", err)
	}
	return s.ListWishlist(ctx, ownerID)
}

func (s *Postgres) ListWishlist(ctx context.Context, ownerID string) ([]users.WishlistEntry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT game_id, title, platform, genres, reason, added_at
		FROM wishlist_entries
		WHERE owner_id = $1
		ORDER BY added_at, game_id
	`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list wishlist: %w", err)
	}
	defer rows.Close()

	var entries []users.WishlistEntry
	for rows.Next() {
		var (
			e      users.WishlistEntry
			genres pq.StringArray
		)
		if err := rows.Scan(&e.GameID, &e.Title, &e.Platform, &genres, &e.Reason, &e.AddedAt); err != nil {
			return nil, fmt.Errorf("scan wishlist entry: %w", err)
		}
		e.Genres = []string(genres)
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list wishlist: %w", err)
	}
	return entries, nil
}

func (s *Postgres) ownerExists(ctx context.Context, ownerID string) error {
	var exists bool
	err := s.db.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM users WHERE id = $1)`, ownerID).Scan(&exists)
	if err != nil {
		return fmt.Errorf("check owner: %w", err)
	}
	if !exists {
		return sentinel.ErrNotFound
	}
	return nil
}

func marshalProfile(u *users.User) (prefs, meta []byte, err error) {
	prefs, err = json.Marshal(u.Preferences)
	if err != nil {
		return nil, nil, fmt.Errorf("encode preferences: %w", err)
	}
	meta, err = json.Marshal(u.Metadata)
	if err != nil {
		return nil, nil, fmt.Errorf("encode metadata: %w", err)
	}
	return prefs, meta, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23503"
}

func nullString(v string) sql.NullString {
	if v == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: v, Valid: true}
}

func nullTime(v *time.Time) sql.NullTime {
	if v == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *v, Valid: true}
}

var _ Store = (*Postgres)(nil)
