package seeder

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Role mirrors the integer role column: 0 = user, 1 = admin.
type Role int

const (
	RoleUser  Role = 0
	RoleAdmin Role = 1
)

func (r Role) String() string {
	if r == RoleAdmin {
		return "admin"
	}
	return "user"
}

func (r *Role) UnmarshalYAML(value *yaml.Node) error {
	switch value.Value {
	case "user", "0", "":
		*r = RoleUser
	case "admin", "1":
		*r = RoleAdmin
	default:
		return fmt.Errorf("unknown role: %s", value.Value)
	}
	return nil
}

// UserSpec describes one roster entry. Posts is the target message count
// for that user; zero means a random draw of 3-5.
type UserSpec struct {
	Username string `yaml:"username"`
	Email    string `yaml:"email"`
	Password string `yaml:"password"`
	Role     Role   `yaml:"role"`
	Posts    int    `yaml:"posts"`
}

type rosterFile struct {
	Users []UserSpec `yaml:"users"`
}

// DefaultRoster returns the fixed set of sample accounts.
func DefaultRoster() []UserSpec {
	return []UserSpec{
		{Username: "bob", Email: "bob@example.com", Password: "Password123!", Role: RoleUser},
		{Username: "alice", Email: "alice@example.com", Password: "Password123!", Role: RoleUser},
		{Username: "admin", Email: "admin@example.com", Password: "Password123!", Role: RoleAdmin},
		{Username: "canary", Email: "canary@example.com", Password: "Password123!", Role: RoleUser},
	}
}

// MessagePool returns the sample sentences messages are drawn from.
// Each user's batch samples without replacement, so within one batch a
// sentence appears at most once.
func MessagePool() []string {
	return []string{
		"Welcome to our bulletin board! This is a great place to share ideas and connect with others.",
		"Has anyone tried the new language features? The improved error messages look amazing!",
		"Looking for recommendations on good web development tutorials for beginners.",
		"Just deployed my first web application. Feeling accomplished!",
		"Does anyone know the best practices for database optimization in PostgreSQL?",
		"Coffee or tea? The eternal developer question. What's your preference?",
		"Working on a machine learning project. Any dataset suggestions for sentiment analysis?",
		"The new CSS Grid features are really nice for responsive design. Anyone using them?",
		"Debugging can be frustrating, but finding that elusive bug is so satisfying!",
		"What's everyone's favorite code editor? I'm curious to hear different opinions.",
		"Just learned about React hooks. State management is much cleaner now!",
		"Anyone attending any tech conferences this year? Looking for recommendations.",
		"CSS Grid vs Flexbox - when do you use which one? Still learning the differences.",
		"Successfully optimized our API response time by 40% today. Small wins matter!",
		"What are your thoughts on TypeScript? Worth learning for JavaScript developers?",
		"Setting up CI/CD pipelines can be tricky. Any good resources to recommend?",
		"The documentation for this new framework is excellent. Makes learning so much easier!",
		"Anyone else excited about the upcoming developments in AI and web tooling?",
		"Code reviews are so valuable for learning. Love seeing different approaches to problems.",
		"Just finished a challenging algorithm problem. Problem-solving skills are improving!",
	}
}

// LoadRoster reads a roster override from a yaml file.
func LoadRoster(path string) ([]UserSpec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read roster file: %w", err)
	}

	var file rosterFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse roster file: %w", err)
	}

	if err := ValidateRoster(file.Users); err != nil {
		return nil, fmt.Errorf("invalid roster in %s: %w", path, err)
	}

	return file.Users, nil
}

func ValidateRoster(roster []UserSpec) error {
	if len(roster) == 0 {
		return fmt.Errorf("roster contains no users")
	}

	seen := make(map[string]bool)
	for i, spec := range roster {
		if spec.Username == "" {
			return fmt.Errorf("user %d has no username", i+1)
		}
		if spec.Email == "" {
			return fmt.Errorf("user %s has no email", spec.Username)
		}
		if spec.Password == "" {
			return fmt.Errorf("user %s has no password", spec.Username)
		}
		if spec.Posts < 0 {
			return fmt.Errorf("user %s has negative post target", spec.Username)
		}
		if seen[spec.Username] {
			return fmt.Errorf("duplicate username: %s", spec.Username)
		}
		seen[spec.Username] = true
	}

	return nil
}
