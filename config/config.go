package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const ENV_FILE = ".env"
const CONFIG_FILE = "config.yaml"

type AppConfig struct {
	Logging      LoggingConfig      `yaml:"logging"`
	Server       ServerConfig       `yaml:"server"`
	Collaborator CollaboratorConfig `yaml:"collaborator"`
	Listing      ListingConfig      `yaml:"listing"`
	Carousel     CarouselConfig     `yaml:"carousel"`
	Session      SessionConfig      `yaml:"session"`
}

type LoggingConfig struct {
	Level string `yaml:"level"`
}

type ServerConfig struct {
	Addr string `yaml:"addr"`
	// AllowedOrigins 는 JSON 엔드포인트에 대한 CORS 허용 origin 목록이다.
	AllowedOrigins []string `yaml:"allowed_origins"`
}

// CollaboratorConfig 는 블로그/유저 데이터를 제공하는 원격 REST API 설정이다.
type CollaboratorConfig struct {
	BaseURL string        `yaml:"base_url"`
	Timeout time.Duration `yaml:"timeout"`
	// RequestsPerSecond 는 아웃바운드 호출의 초당 최대 요청 수이다. 0 이하면 제한 없음.
	RequestsPerSecond float64 `yaml:"requests_per_second"`
	Burst             int     `yaml:"burst"`
}

// ListingConfig 는 블로그 목록 페이지네이션 설정이다.
type ListingConfig struct {
	PageSize int `yaml:"page_size"`
	// LoadMoreDelay 는 "더 보기" 요청 후 페이지를 넘기기 전까지 기다리는 시간이다.
	LoadMoreDelay time.Duration `yaml:"load_more_delay"`
	ViewTTL       time.Duration `yaml:"view_ttl"`
	MaxViews      int           `yaml:"max_views"`
}

type CarouselConfig struct {
	Tags     []string `yaml:"tags"`
	MinPosts int      `yaml:"min_posts"`
}

type SessionConfig struct {
	CookieName string `yaml:"cookie_name"`
	MaxAge     int    `yaml:"max_age"`
	Secure     bool   `yaml:"secure"`
	// Secret 은 yaml 에 두지 않고 SESSION_SECRET 환경변수로만 주입한다.
	Secret string `yaml:"-"`
}

var config *AppConfig

// Defaults 는 config.yaml 에 없는 키에 쓰이는 기본 설정이다.
func Defaults() AppConfig {
	return AppConfig{
		Logging: LoggingConfig{Level: "info"},
		Server:  ServerConfig{Addr: ":8080"},
		Collaborator: CollaboratorConfig{
			BaseURL:           "https://hey-sainty-backend.vercel.app",
			Timeout:           10 * time.Second,
			RequestsPerSecond: 20,
			Burst:             5,
		},
		Listing: ListingConfig{
			PageSize:      6,
			LoadMoreDelay: 750 * time.Millisecond,
			ViewTTL:       30 * time.Minute,
			MaxViews:      1024,
		},
		Carousel: CarouselConfig{MinPosts: 2},
		Session: SessionConfig{
			CookieName: "sainty_session",
			MaxAge:     86400,
		},
	}
}

// Load 는 Defaults 위에 path 의 yaml 을 읽고 환경변수로 덮어쓴다.
// 파일이 없어도 에러가 아니다.
func Load(path string) (AppConfig, error) {
	c := Defaults()
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, &c); err != nil {
				return AppConfig{}, fmt.Errorf("parse %s: %w", path, err)
			}
		case !os.IsNotExist(err):
			return AppConfig{}, err
		}
	}
	applyEnv(&c)
	return c, nil
}

func applyEnv(c *AppConfig) {
	if v := os.Getenv("SAINTY_API_BASE_URL"); v != "" {
		c.Collaborator.BaseURL = v
	}
	if v := os.Getenv("SAINTY_ADDR"); v != "" {
		c.Server.Addr = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	c.Session.Secret = os.Getenv("SESSION_SECRET")
}

func InitApp() {
	// 환경변수 로드
	godotenv.Load(filepath.Join(GetBasePath(), ENV_FILE))

	c, err := Load(filepath.Join(GetBasePath(), CONFIG_FILE))
	if err != nil {
		panic(err)
	}
	config = &c
}

func GetConfig() AppConfig {
	if config == nil {
		InitApp()
	}

	return *config
}

func GetBasePath() string {
	cwd, err := os.Getwd()
	if err != nil {
		return ""
	}

	dir := cwd
	for {
		cfgPath := filepath.Join(dir, CONFIG_FILE)
		if info, err := os.Stat(cfgPath); err == nil && !info.IsDir() {
			return dir
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return ""
}
