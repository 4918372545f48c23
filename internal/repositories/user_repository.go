package repositories

import (
	"database/sql"
	"fmt"

	"github.com/msadour/user-space/internal/models"
)

type UserRepository interface {
	Create(user *models.User) error
	GetByID(id int) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
	GetByPhone(phone string) (*models.User, error)
	List(limit, offset int) ([]*models.User, error)
	Delete(id int) error

	// verification / credential helpers
	MarkEmailVerified(userID int) error
	UpdatePassword(userID int, passwordHash string) error
}

type userRepository struct {
	DB *sql.DB
}

func NewUserRepository(db *sql.DB) UserRepository {
	return &userRepository{DB: db}
}

const userColumns = `
	id, email, password_hash, phone_number,
	email_verified, password_supplied, role_id, token_version
`

func (r *userRepository) scanUser(row *sql.Row) (*models.User, error) {
	u := &models.User{}
	var phone sql.NullString
	err := row.Scan(
		&u.ID, &u.Email, &u.PasswordHash, &phone,
		&u.EmailVerified, &u.PasswordSupplied, &u.RoleID, &u.TokenVersion,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	if phone.Valid {
		u.PhoneNumber = phone.String
	}
	return u, nil
}

func (r *userRepository) Create(user *models.User) error {
	const q = `
		INSERT INTO users (
			email, password_hash, phone_number,
			email_verified, password_supplied, role_id, token_version
		)
		VALUES ($1,$2,$3,$4,$5,$6,0)
		RETURNING id
	`
	return r.DB.QueryRow(q,
		user.Email,
		user.PasswordHash,
		user.PhoneNumber,
		user.EmailVerified,
		user.PasswordSupplied,
		user.RoleID,
	).Scan(&user.ID)
}

func (r *userRepository) GetByID(id int) (*models.User, error) {
	row := r.DB.QueryRow(`SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	return r.scanUser(row)
}

func (r *userRepository) GetByEmail(email string) (*models.User, error) {
	row := r.DB.QueryRow(`SELECT `+userColumns+` FROM users WHERE email = $1`, email)
	return r.scanUser(row)
}

func (r *userRepository) GetByPhone(phone string) (*models.User, error) {
	const q = `
		SELECT ` + userColumns + `
		FROM users
		WHERE phone_number = $1
		LIMIT 1
	`
	row := r.DB.QueryRow(q, phone)
	return r.scanUser(row)
}

func (r *userRepository) List(limit, offset int) ([]*models.User, error) {
	const q = `
		SELECT ` + userColumns + `
		FROM users
		ORDER BY id
		LIMIT $1 OFFSET $2
	`
	rows, err := r.DB.Query(q, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []*models.User
	for rows.Next() {
		u := &models.User{}
		var phone sql.NullString
		if err := rows.Scan(
			&u.ID, &u.Email, &u.PasswordHash, &phone,
			&u.EmailVerified, &u.PasswordSupplied, &u.RoleID, &u.TokenVersion,
		); err != nil {
			return nil, err
		}
		if phone.Valid {
			u.PhoneNumber = phone.String
		}
		res = append(res, u)
	}
	return res, rows.Err()
}

// Delete — verification rows go with the user (ON DELETE CASCADE).
func (r *userRepository) Delete(id int) error {
	res, err := r.DB.Exec(`DELETE FROM users WHERE id=$1`, id)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (r *userRepository) MarkEmailVerified(userID int) error {
	_, err := r.DB.Exec(`UPDATE users SET email_verified=TRUE WHERE id=$1`, userID)
	return err
}

// UpdatePassword — bumping token_version revokes every outstanding session.
func (r *userRepository) UpdatePassword(userID int, passwordHash string) error {
	const q = `
		UPDATE users
		SET password_hash=$1, password_supplied=TRUE, token_version=token_version+1
		WHERE id=$2
	`
	_, err := r.DB.Exec(q, passwordHash, userID)
	return err
}
