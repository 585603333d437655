package types

const (
	USER_ROLE_ADMIN = "admin"
	USER_ROLE_USER  = "user"
)

type User struct {
	ID       string `json:"id" bson:"_id,omitempty"`
	Username string `json:"username" bson:"username"`
	Password string `json:"password" bson:"password"`
	FullName string `json:"full_name" bson:"full_name"`
	Role     string `json:"role" bson:"role"`
	CreateAt int64  `json:"created_at" bson:"created_at"`
	UpdateAt int64  `json:"updated_at" bson:"updated_at"`
}
