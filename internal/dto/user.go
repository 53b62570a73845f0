package dto

import (
	"time"

	"github.com/yukikurage/taskboard/internal/models"
	"github.com/yukikurage/taskboard/internal/wallet"
)

// UserDTO represents a user in API responses
type UserDTO struct {
	Address      string    `json:"address"`
	ShortAddress string    `json:"shortAddress"`
	ProfilePic   string    `json:"profilePic"`
	JoinedAt     time.Time `json:"joinedAt"`
}

// NonceDTO is the sign-in challenge handed to the browser wallet
type NonceDTO struct {
	Nonce   string `json:"nonce"`
	Message string `json:"message"`
}

// ToUserDTO converts a User model to UserDTO
func ToUserDTO(user models.User) UserDTO {
	return UserDTO{
		Address:      user.Address,
		ShortAddress: wallet.ShortAddress(user.Address),
		ProfilePic:   user.ProfilePic,
		JoinedAt:     user.JoinedAt,
	}
}
