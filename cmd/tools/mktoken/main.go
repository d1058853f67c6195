package main

import (
	"fmt"
	"log"
	"os"

	"hangulnum.local/internal/platform/auth"
	"hangulnum.local/internal/platform/config"
)

// 用 .env / 环境变量里的 JWT_SECRET 签发一个管理员 token，给 /api/v1/admin 用。
func main() {
	if len(os.Args) != 2 {
		log.Fatal("usage: go run ./cmd/tools/mktoken <subject>")
	}
	cfg := config.Load()

	ts, err := auth.NewHS256(cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTTTL)
	if err != nil {
		log.Fatal(err)
	}
	token, err := ts.Sign(os.Args[1], auth.RoleAdmin)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(token)
}
