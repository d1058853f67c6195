package repo

import (
	"embed"
	"io/fs"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Migrations 返回迁移文件目录，交给 migrate.Up。
func Migrations() fs.FS {
	sub, err := fs.Sub(migrationsFS, "migrations")
	if err != nil {
		panic(err) // 路径是编译期固定的
	}
	return sub
}
