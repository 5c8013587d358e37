package domain

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// GuestName is shown in place of a username when nobody is signed in.
const GuestName = "Гость"

const (
	PlanFree = "Free Plan"
	PlanPro  = "Pro Plan"
)

type User struct {
	ID                UserID     `json:"id"`
	Username          string     `json:"username"`
	Email             *string    `json:"email,omitempty"`
	TelegramID        *int64     `json:"telegram_id,omitempty"`
	IsPremium         bool       `json:"is_premium"`
	FreeRequestsUsed  int        `json:"free_requests_used"`
	FreeRequestsLimit int        `json:"free_requests_limit"`
	CreatedAt         *time.Time `json:"created_at,omitempty"`
}

// Progress returns the share of the free quota already used, in percent.
// The value is clamped to [0, 100] so a counter that overshoots its limit
// still renders as a full bar.
func (u *User) Progress() float64 {
	if u.FreeRequestsLimit <= 0 {
		if u.IsPremium {
			return 0
		}
		return 100
	}
	p := float64(u.FreeRequestsUsed) / float64(u.FreeRequestsLimit) * 100
	switch {
	case p < 0:
		return 0
	case p > 100:
		return 100
	}
	return p
}

// Remaining returns how many free generations are left, never negative.
func (u *User) Remaining() int {
	r := u.FreeRequestsLimit - u.FreeRequestsUsed
	if r < 0 {
		return 0
	}
	return r
}

func (u *User) PlanLabel() string {
	if u.IsPremium {
		return PlanPro
	}
	return PlanFree
}

func (u *User) DisplayName() string {
	if u == nil || strings.TrimSpace(u.Username) == "" {
		return GuestName
	}
	return u.Username
}

// UserID is the server-assigned user identifier. The account endpoint may
// send it as a JSON number or a string; it is kept as its decimal text.
type UserID string

func (id UserID) String() string { return string(id) }

// MarshalJSON emits canonical decimal ids as JSON numbers and everything
// else, including "007" and "+5", as strings.
func (id UserID) MarshalJSON() ([]byte, error) {
	if n, err := strconv.ParseInt(string(id), 10, 64); err == nil && strconv.FormatInt(n, 10) == string(id) {
		return []byte(id), nil
	}
	return json.Marshal(string(id))
}

func (id *UserID) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("decode user id: %w", err)
		}
		*id = UserID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("decode user id: %w", err)
	}
	*id = UserID(n.String())
	return nil
}
