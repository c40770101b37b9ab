package skills_test

import (
	"testing"

	"github.com/okian/devmatch/internal/domain/skills"
	. "github.com/smartystreets/goconvey/convey"
)

func TestNormalize(t *testing.T) {
	Convey("Given raw skill tokens", t, func() {
		cases := map[string]string{
			"Python":    "python",
			"  React  ": "react",
			"\tGo\n":    "go",
			"":          "",
			"   ":       "",
			"Node.JS ":  "node.js",
			"C++":       "c++",
		}

		Convey("Then they normalize to lower-case trimmed form", func() {
			for in, want := range cases {
				So(skills.Normalize(in), ShouldEqual, want)
			}
		})

		Convey("And normalization is idempotent", func() {
			for in := range cases {
				once := skills.Normalize(in)
				So(skills.Normalize(once), ShouldEqual, once)
			}
		})
	})
}

func TestSet(t *testing.T) {
	Convey("Given tokens with duplicates differing in case and spacing", t, func() {
		s := skills.NewSet("Go", " go", "GO ", "Rust")

		Convey("Then the set keeps one entry per normalized skill", func() {
			So(s.Len(), ShouldEqual, 2)
			So(s.Has("  RUST"), ShouldBeTrue)
			So(s.Sorted(), ShouldResemble, []string{"go", "rust"})
		})

		Convey("And intersection ignores the blank token", func() {
			a := skills.NewSet("", "go")
			b := skills.NewSet(" ", "Go", "java")
			So(a.Intersect(b).Sorted(), ShouldResemble, []string{"go"})
		})
	})
}

func TestMatchRatio(t *testing.T) {
	Convey("Given required and candidate skill lists", t, func() {
		Convey("When either side is empty", func() {
			Convey("Then the ratio is 0", func() {
				So(skills.MatchRatio(nil, []string{"go"}), ShouldEqual, 0.0)
				So(skills.MatchRatio([]string{}, []string{"go"}), ShouldEqual, 0.0)
				So(skills.MatchRatio([]string{"go"}, nil), ShouldEqual, 0.0)
				So(skills.MatchRatio([]string{"go"}, []string{}), ShouldEqual, 0.0)
			})
		})

		Convey("When matching is case and whitespace insensitive", func() {
			So(skills.MatchRatio([]string{"Python"}, []string{" python "}), ShouldEqual, 1.0)
		})

		Convey("When half the requirements are covered", func() {
			ratio := skills.MatchRatio([]string{"python", "react"}, []string{"Python", "SQL"})
			So(ratio, ShouldEqual, 0.5)
		})

		Convey("When the candidate has many irrelevant extra skills", func() {
			ratio := skills.MatchRatio([]string{"go", "sql", "k8s"},
				[]string{"go", "java", "c#", "php", "ruby", "perl", "lua"})

			Convey("Then only coverage of the requirements counts", func() {
				So(ratio, ShouldAlmostEqual, 1.0/3.0, 1e-12)
			})
		})

		Convey("When requirements contain duplicates", func() {
			ratio := skills.MatchRatio([]string{"Go", "go ", "SQL"}, []string{"go"})

			Convey("Then duplicates collapse before dividing", func() {
				So(ratio, ShouldEqual, 0.5)
			})
		})

		Convey("When the ratio is computed in both directions", func() {
			a := []string{"go", "sql"}
			b := []string{"go", "sql", "java", "rust"}

			Convey("Then it is not symmetric", func() {
				So(skills.MatchRatio(a, b), ShouldEqual, 1.0)
				So(skills.MatchRatio(b, a), ShouldEqual, 0.5)
			})
		})

		Convey("When a blank required token is present", func() {
			ratio := skills.MatchRatio([]string{"", "go"}, []string{"go", ""})

			Convey("Then it counts toward the requirement but never matches", func() {
				So(ratio, ShouldEqual, 0.5)
			})
		})

		Convey("Then the ratio always stays in [0,1]", func() {
			pools := [][]string{nil, {"a"}, {"a", "b"}, {"A", "c", "d"}, {"x", "y", "z", "a"}}
			for _, req := range pools {
				for _, cand := range pools {
					r := skills.MatchRatio(req, cand)
					So(r, ShouldBeBetweenOrEqual, 0, 1)
				}
			}
		})
	})
}

func TestMatched(t *testing.T) {
	Convey("Given overlapping skill lists", t, func() {
		So(skills.Matched([]string{"React", "Go", "SQL"}, []string{"sql", "go", "java"}), ShouldResemble, []string{"go", "sql"})
	})
}
