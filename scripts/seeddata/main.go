package main

import (
	"fmt"
	"log"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/fintalk/fintalk/internal/config"
	"github.com/fintalk/fintalk/internal/db"
	"github.com/fintalk/fintalk/internal/service"
)

// 生成一套本地开发用的演示数据:各角色用户、三种状态的文章、
// 关注关系、收藏和举报。重复执行前请删除数据库文件。
func main() {
	cfg := config.Load()

	if err := db.Init(cfg.DatabasePath); err != nil {
		log.Fatalf("数据库初始化失败: %v", err)
	}

	var count int64
	db.DB.Model(&db.User{}).Count(&count)
	if count > 0 {
		fmt.Println("数据库已有数据,跳过生成")
		return
	}

	users := seedUsers()
	posts := seedPosts(users)
	seedRelations(users, posts)

	fmt.Println("演示数据生成完成")
}

func seedUsers() map[string]*db.User {
	specs := []struct {
		username string
		role     string
	}{
		{"admin", db.RoleAdmin},
		{"mod", db.RoleModerator},
		{"alice", db.RoleAuthor},
		{"bob", db.RoleAuthor},
		{"carol", db.RoleReader},
		{"dave", db.RoleReader},
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("密码加密失败: %v", err)
	}

	users := map[string]*db.User{}
	for _, spec := range specs {
		user := db.User{
			Username: spec.username,
			Password: string(hashed),
			Email:    spec.username + "@fintalk.local",
			Role:     spec.role,
		}
		if err := db.DB.Create(&user).Error; err != nil {
			log.Fatalf("创建用户 %s 失败: %v", spec.username, err)
		}
		users[spec.username] = &user
		fmt.Printf("用户 %-6s 角色 %-9s 密码 password123\n", user.Username, user.Role)
	}
	return users
}

func seedPosts(users map[string]*db.User) []*db.Post {
	svc := service.NewPostService(db.DB, nil)
	alice := users["alice"]
	bob := users["bob"]

	future := time.Now().Add(48 * time.Hour)
	inputs := []service.PostInput{
		{
			Title:        "Why Savings Rates Finally Moved",
			Content:      "After years of near-zero yields, deposit rates are worth comparing again. Here is what changed.",
			Author:       "alice",
			AuthorUserID: &alice.ID,
			Tags:         "savings, rates",
			Status:       db.StatusPublished,
		},
		{
			Title:        "Index Funds for the Impatient",
			Content:      "A boring portfolio is a feature. This post walks through a three-fund setup step by step.",
			Author:       "alice",
			AuthorUserID: &alice.ID,
			Tags:         "investing, funds",
			Status:       db.StatusPublished,
		},
		{
			Title:        "Draft: Notes on Emergency Funds",
			Content:      "Rough notes on how large an emergency fund should actually be. Not ready yet.",
			Author:       "bob",
			AuthorUserID: &bob.ID,
			Tags:         "budgeting",
			Status:       db.StatusDraft,
		},
		{
			Title:                "Quarterly Market Recap",
			Content:              "Scheduled recap of the quarter, going out once the numbers are final.",
			Author:               "bob",
			AuthorUserID:         &bob.ID,
			Tags:                 "markets, recap",
			Status:               db.StatusScheduled,
			ScheduledPublishDate: &future,
		},
	}

	posts := make([]*db.Post, 0, len(inputs))
	for _, input := range inputs {
		post, err := svc.Create(input)
		if err != nil {
			log.Fatalf("创建文章 %q 失败: %v", input.Title, err)
		}
		posts = append(posts, post)
		fmt.Printf("文章 #%d [%s] %s\n", post.ID, post.Status, post.Title)
	}
	return posts
}

func seedRelations(users map[string]*db.User, posts []*db.Post) {
	follows := service.NewFollowService(db.DB, nil)
	saved := service.NewSavedArticleService(db.DB, nil)
	flags := service.NewFlagService(db.DB, nil)

	if err := follows.Follow(users["carol"].ID, users["alice"].ID); err != nil {
		log.Fatalf("创建关注失败: %v", err)
	}
	if err := follows.Follow(users["dave"].ID, users["alice"].ID); err != nil {
		log.Fatalf("创建关注失败: %v", err)
	}
	if err := follows.Follow(users["carol"].ID, users["bob"].ID); err != nil {
		log.Fatalf("创建关注失败: %v", err)
	}

	if _, err := saved.Save(users["carol"].ID, posts[0].ID); err != nil {
		log.Fatalf("创建收藏失败: %v", err)
	}
	if _, err := saved.Save(users["dave"].ID, posts[1].ID); err != nil {
		log.Fatalf("创建收藏失败: %v", err)
	}

	if _, err := flags.Flag(posts[1].ID, users["dave"].ID, "Reads like undisclosed advertising"); err != nil {
		log.Fatalf("创建举报失败: %v", err)
	}

	fmt.Println("关注、收藏和举报示例已创建")
}
