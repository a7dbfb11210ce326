package model

const (
	MsgFriendAdded        = "Friend added successfully"
	MsgFriendAlreadyAdded = "Friend already added"
	MsgFriendExists       = "Friend already exists"
)

type FriendList struct {
	Friends []FriendView `json:"friends"`
	Count   int          `json:"count"`
}

type AddFriendResult struct {
	Success bool   `json:"success"`
	Added   bool   `json:"added"`
	Message string `json:"message"`
}

type RemoveFriendResult struct {
	Success bool `json:"success"`
	Removed bool `json:"removed"`
}
