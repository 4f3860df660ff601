package postgres

import (
	"database/sql"

	"gorm.io/gorm"

	"github.com/frahmantamala/reimbursement-tracker/internal"
	"github.com/frahmantamala/reimbursement-tracker/internal/auth"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		db: db,
	}
}

func (r *Repository) GetCredentialsByEmail(email string) (int64, string, error) {
	var userID int64
	var passwordHash string
	query := `SELECT id, password_hash FROM users WHERE email = ?`

	row := r.db.Raw(query, email).Row()
	if err := row.Scan(&userID, &passwordHash); err != nil {
		if err == sql.ErrNoRows {
			return 0, "", internal.ErrUserNotFound
		}
		return 0, "", err
	}
	return userID, passwordHash, nil
}

// GetPrincipal loads the user plus the linked employee id, if any. The join is
// LEFT because admins usually have no employee record.
func (r *Repository) GetPrincipal(userID int64) (*auth.Principal, error) {
	var p auth.Principal
	var role string
	var employeeID sql.NullInt64

	query := `SELECT u.id, u.name, u.email, u.role, e.id
	          FROM users u
	          LEFT JOIN employees e ON e.user_id = u.id
	          WHERE u.id = ?`

	row := r.db.Raw(query, userID).Row()
	if err := row.Scan(&p.UserID, &p.Name, &p.Email, &role, &employeeID); err != nil {
		if err == sql.ErrNoRows {
			return nil, internal.ErrUserNotFound
		}
		return nil, err
	}

	parsedRole, err := auth.ParseRole(role)
	if err != nil {
		return nil, err
	}
	p.Role = parsedRole

	if employeeID.Valid {
		id := employeeID.Int64
		p.EmployeeID = &id
	}

	return &p, nil
}
