package main

import (
	"fmt"
	"log"
	"os"

	"github.com/fintalk/fintalk/internal/config"
	"github.com/fintalk/fintalk/internal/db"
)

// 创建或修复管理员账号。用法:
//
//	ADMIN_USER_NAME=admin ADMIN_PASSWORD=secret go run ./scripts/initadmin
func main() {
	cfg := config.Load()

	if err := db.Init(cfg.DatabasePath); err != nil {
		log.Fatalf("数据库初始化失败: %v", err)
	}

	username := cfg.AdminUserName
	password := cfg.AdminPassword
	if username == "" || password == "" {
		fmt.Println("需要设置 ADMIN_USER_NAME 和 ADMIN_PASSWORD 环境变量")
		os.Exit(1)
	}

	if err := db.EnsureAdmin(username, password); err != nil {
		log.Fatalf("创建管理员失败: %v", err)
	}

	fmt.Println("管理员账号就绪:", username)
}
