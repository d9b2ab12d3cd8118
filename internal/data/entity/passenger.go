package entity

type AccountType string

const (
	AccountMember AccountType = "MEMBER"
	AccountGuest  AccountType = "GUEST"
)

type Passenger struct {
	Base
	FullName    string      `db:"full_name"`
	Email       string      `db:"email"`
	Phone       *string     `db:"phone"`
	AccountType AccountType `db:"account_type"`
	Registered  bool        `db:"registered"`
}

// IsMember is true only for fully registered member accounts.
func (p *Passenger) IsMember() bool {
	return p != nil && p.AccountType == AccountMember && p.Registered
}
