package user

import domain "user-api/internal/domain/user"

// DefaultMapper copies fields one to one.
type DefaultMapper struct{}

// NewMapper returns the field-for-field mapper.
func NewMapper() DefaultMapper {
	return DefaultMapper{}
}

// ToDTO converts a domain user to its transfer object.
func (DefaultMapper) ToDTO(u domain.User) UserDTO {
	return UserDTO{
		ID:       u.ID,
		Name:     u.Name,
		Email:    u.Email,
		Password: u.Password,
	}
}

// ToEntity converts a transfer object to a domain user.
func (DefaultMapper) ToEntity(dto UserDTO) domain.User {
	return domain.User{
		ID:       dto.ID,
		Name:     dto.Name,
		Email:    dto.Email,
		Password: dto.Password,
	}
}

// ToDTOs converts a slice of users, returning an empty slice for no users.
func ToDTOs(m Mapper, users []domain.User) []UserDTO {
	out := make([]UserDTO, len(users))
	for i, u := range users {
		out[i] = m.ToDTO(u)
	}
	return out
}
