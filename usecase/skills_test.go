package usecase

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSkillsMatchScore(t *testing.T) {
	cases := []struct {
		name      string
		applicant []string
		required  []string
		preferred []string
		want      int
	}{
		{"half required, no preferred", []string{"React"}, []string{"react", "node"}, []string{"docker"}, 35},
		{"applicant without skills", nil, []string{"go"}, []string{"sql"}, 0},
		{"job without skill lists", []string{"go"}, nil, nil, 100},
		{"everything matches", []string{"Go", " SQL ", "docker"}, []string{"go", "sql"}, []string{"Docker"}, 100},
		{"only preferred listed", []string{"docker"}, nil, []string{"docker", "k8s"}, 85},
		{"only required listed", []string{"go"}, []string{"go", "rust", "c"}, nil, 53},
		{"nothing matches", []string{"cobol"}, []string{"go"}, []string{"sql"}, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, SkillsMatchScore(tc.applicant, tc.required, tc.preferred))
		})
	}
}

func TestSkillsInText(t *testing.T) {
	got := skillsInText([]string{"Go", "Kubernetes", "Rust", " "}, "Five years of GO and kubernetes operations")
	assert.Equal(t, []string{"Go", "Kubernetes"}, got)
}

func TestParseSalary(t *testing.T) {
	cases := []struct {
		text     string
		min, max *int
	}{
		{"50k - 80k", intPtr(50000), intPtr(80000)},
		{"USD 1200", intPtr(1200), intPtr(1200)},
		{"60K-90K per year", intPtr(60000), intPtr(90000)},
		{"4000-6000", intPtr(4000), intPtr(6000)},
		{"competitive", nil, nil},
		{"", nil, nil},
	}
	for _, tc := range cases {
		low, high := ParseSalary(tc.text)
		assert.Equal(t, tc.min, low, tc.text)
		assert.Equal(t, tc.max, high, tc.text)
	}
}
