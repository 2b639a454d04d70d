package utils

import "golang.org/x/crypto/bcrypt"

// HashPassword bcrypt 哈希。入参校验已把密码限到 72 字节以内，
// 所以这里不会触发 ErrPasswordTooLong；出错时直接 panic，绝不落空哈希
func HashPassword(pw string) string {
	b, err := bcrypt.GenerateFromPassword([]byte(pw), bcrypt.DefaultCost)
	if err != nil {
		panic(err)
	}
	return string(b)
}

func CheckPassword(pw, hashed string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(pw)) == nil
}
