package models

// View projects the public profile of a user.
func (u *User) View() UserView {
	return UserView{
		ID:             u.ID,
		Username:       u.Username,
		DisplayName:    u.DisplayName,
		ProfilePicture: u.ProfilePicture,
	}
}

// Profile projects the owner-facing profile of a user.
func (u *User) Profile() ProfileView {
	return ProfileView{
		ID:             u.ID,
		Username:       u.Username,
		DisplayName:    u.DisplayName,
		Email:          u.Email,
		PhoneNumber:    u.PhoneNumber,
		ProfilePicture: u.ProfilePicture,
		CreatedAt:      u.CreatedAt,
		UpdatedAt:      u.UpdatedAt,
	}
}
