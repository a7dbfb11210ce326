package model

import "time"

// Profile is the document stored in the profiles collection, keyed by wallet address.
type Profile struct {
	Address       string    `bson:"address" json:"address"`
	Name          string    `bson:"name,omitempty" json:"name,omitempty"`
	AvatarURL     string    `bson:"avatarUrl,omitempty" json:"avatarUrl,omitempty"`
	Bio           string    `bson:"bio,omitempty" json:"bio,omitempty"`
	Friends       []string  `bson:"friends,omitempty" json:"friends"`
	ChatroomCount int       `bson:"chatroomCount" json:"chatroomCount"`
	CreatedAt     time.Time `bson:"createdAt,omitempty" json:"createdAt"`
	UpdatedAt     time.Time `bson:"updatedAt,omitempty" json:"updatedAt"`
}

// HasFriend reports whether addr is in the profile's friend set.
func (p *Profile) HasFriend(addr string) bool {
	if p == nil {
		return false
	}
	for _, f := range p.Friends {
		if f == addr {
			return true
		}
	}
	return false
}

// FriendView is the public projection of a friend's profile.
type FriendView struct {
	Address   string `json:"address"`
	Name      string `json:"name,omitempty"`
	AvatarURL string `json:"avatarUrl,omitempty"`
	Bio       string `json:"bio,omitempty"`
}

// View projects the profile to the fields exposed in a friends list.
func (p *Profile) View() FriendView {
	return FriendView{
		Address:   p.Address,
		Name:      p.Name,
		AvatarURL: p.AvatarURL,
		Bio:       p.Bio,
	}
}
