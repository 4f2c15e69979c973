package auth

import "database/sql"

/* There are two solutions to avoiding cyclic imports between the `auth` and `users` packages:
1. merge the two in the users package
2. maintain a minimal account reader inside the auth package
*/

// Account carries the verified identity attached to authenticated requests.
// The privileged flag is always read back from storage, never from anything the client supplies.
type Account struct {
	Id        int64
	Tag       string
	Email     string
	IsCreator bool
}

type Repository struct {
	Connection *sql.DB
}

func NewRepository(connection *sql.DB) *Repository {
	return &Repository{connection}
}

// GetAccountById either returns an account matching the id, or an error (along with an ignorable empty struct).
func (ar *Repository) GetAccountById(id int64) (account Account, err error) {
	err = ar.Connection.QueryRow("SELECT id, tag, email, is_creator FROM accounts WHERE id = ?", id).Scan(
		&account.Id,
		&account.Tag,
		&account.Email,
		&account.IsCreator,
	)
	if err != nil {
		return Account{}, err
	}
	return account, nil
}
