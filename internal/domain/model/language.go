package model

// Language maps a submission language slug onto the external runner's
// numeric language ID (Judge0 language catalogue).
type Language struct {
	Slug     string `json:"slug"`
	Name     string `json:"name"`
	RunnerID int    `json:"runner_id"`
	IsActive bool   `json:"is_active"`
}

var supportedLanguages = map[string]Language{
	"python":     {Slug: "python", Name: "Python 3.8", RunnerID: 71, IsActive: true},
	"javascript": {Slug: "javascript", Name: "JavaScript (Node 12)", RunnerID: 63, IsActive: true},
	"java":       {Slug: "java", Name: "Java (OpenJDK 13)", RunnerID: 62, IsActive: true},
	"cpp":        {Slug: "cpp", Name: "C++ (GCC 9)", RunnerID: 54, IsActive: true},
	"go":         {Slug: "go", Name: "Go 1.13", RunnerID: 60, IsActive: true},
}

// LanguageBySlug resolves a language slug; ok is false for unknown or
// inactive languages.
func LanguageBySlug(slug string) (Language, bool) {
	lang, ok := supportedLanguages[slug]
	if !ok || !lang.IsActive {
		return Language{}, false
	}
	return lang, true
}
