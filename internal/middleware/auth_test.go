package middleware

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/fintalk/fintalk/internal/db"
)

func setupAuthTest(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:auth-mw-%d?mode=memory&cache=shared&_foreign_keys=on", time.Now().UnixNano())
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	if err := gdb.AutoMigrate(&db.User{}); err != nil {
		t.Fatalf("failed to migrate test db: %v", err)
	}
	t.Cleanup(func() {
		sqlDB, err := gdb.DB()
		if err == nil {
			_ = sqlDB.Close()
		}
	})

	r := gin.New()
	r.Use(sessions.Sessions("test_session", cookie.NewStore([]byte("secret"))))
	// 登录捷径,仅测试用
	r.POST("/session/:id", func(c *gin.Context) {
		var user db.User
		if err := gdb.First(&user, c.Param("id")).Error; err != nil {
			c.Status(http.StatusNotFound)
			return
		}
		s := sessions.Default(c)
		s.Set(SessionUserIDKey, user.ID)
		_ = s.Save()
		c.Status(http.StatusOK)
	})
	protected := r.Group("", AuthRequired(gdb))
	protected.GET("/whoami", func(c *gin.Context) {
		user, _ := CurrentUser(c)
		c.JSON(http.StatusOK, gin.H{"username": user.Username})
	})
	protected.GET("/modonly", RoleRequired(db.RoleModerator), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return r, gdb
}

func sessionCookie(t *testing.T, r *gin.Engine, userID uint) string {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, fmt.Sprintf("/session/%d", userID), nil)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("session setup failed: %d", rr.Code)
	}
	return rr.Header().Get("Set-Cookie")
}

func TestAuthRequiredResolvesSessionUser(t *testing.T) {
	r, gdb := setupAuthTest(t)

	user := db.User{Username: "sam", Password: "x", Role: db.RoleReader}
	if err := gdb.Create(&user).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}
	cookieHeader := sessionCookie(t, r, user.ID)

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Cookie", cookieHeader)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
}

func TestAuthRequiredRejectsAnonymous(t *testing.T) {
	r, _ := setupAuthTest(t)

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rr.Code)
	}
}

func TestAuthRequiredRejectsDeletedUser(t *testing.T) {
	r, gdb := setupAuthTest(t)

	user := db.User{Username: "gone", Password: "x", Role: db.RoleReader}
	if err := gdb.Create(&user).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}
	cookieHeader := sessionCookie(t, r, user.ID)

	if err := gdb.Delete(&db.User{}, user.ID).Error; err != nil {
		t.Fatalf("delete user: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Cookie", cookieHeader)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for stale session, got %d", rr.Code)
	}
}

func TestRoleRequiredEnforcesRank(t *testing.T) {
	r, gdb := setupAuthTest(t)

	reader := db.User{Username: "reader", Password: "x", Role: db.RoleReader}
	admin := db.User{Username: "admin", Password: "x", Role: db.RoleAdmin}
	if err := gdb.Create(&reader).Error; err != nil {
		t.Fatalf("seed reader: %v", err)
	}
	if err := gdb.Create(&admin).Error; err != nil {
		t.Fatalf("seed admin: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/modonly", nil)
	req.Header.Set("Cookie", sessionCookie(t, r, reader.ID))
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	if rr.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for reader, got %d", rr.Code)
	}

	// admin 高于 moderator,应当放行
	req = httptest.NewRequest(http.MethodGet, "/modonly", nil)
	req.Header.Set("Cookie", sessionCookie(t, r, admin.ID))
	rr = httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200 for admin, got %d", rr.Code)
	}
}
