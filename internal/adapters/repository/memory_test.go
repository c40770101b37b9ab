package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/okian/devmatch/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func rating(f float64) *float64 { return &f }

func testSeed() Seed {
	return Seed{
		Projects: []model.Project{
			{ID: "p1", Name: "Storefront", RequiredSkills: []string{"Python", "React"}},
			{ID: "p2", Name: "Empty", RequiredSkills: nil},
		},
		Users: []model.Candidate{
			{ID: "u1", Name: "Ada", Role: model.RoleDeveloper, Skills: []string{"Python", "SQL"}, ExperienceYears: 4, CurrentWorkload: 2, PerformanceRating: rating(4)},
			{ID: "u2", Name: "Grace", Role: "MANAGER", Skills: []string{"Python"}},
			{ID: "u3", Name: "Linus", Role: model.RoleDeveloper, Skills: []string{"C"}},
		},
	}
}

func TestMemoryStore(t *testing.T) {
	Convey("Given a seeded memory store", t, func() {
		ctx := context.Background()
		store := NewMemoryStore(WithSeed(testSeed()))

		Convey("When looking up a known project", func() {
			p, err := store.FindByID(ctx, "p1")

			Convey("Then its required skills should be returned", func() {
				So(err, ShouldBeNil)
				So(p.Name, ShouldEqual, "Storefront")
				So(p.RequiredSkills, ShouldResemble, []string{"Python", "React"})
			})

			Convey("And mutating the result should not touch the store", func() {
				p.RequiredSkills[0] = "Cobol"
				again, _ := store.FindByID(ctx, "p1")
				So(again.RequiredSkills[0], ShouldEqual, "Python")
			})
		})

		Convey("When looking up an unknown project", func() {
			_, err := store.FindByID(ctx, "missing")
			So(errors.Is(err, ErrNotFound), ShouldBeTrue)
		})

		Convey("When listing developers", func() {
			devs, err := store.FindByRole(ctx, model.RoleDeveloper)

			Convey("Then only developers should be returned in insertion order", func() {
				So(err, ShouldBeNil)
				So(len(devs), ShouldEqual, 2)
				So(devs[0].ID, ShouldEqual, "u1")
				So(devs[1].ID, ShouldEqual, "u3")
				So(*devs[0].PerformanceRating, ShouldEqual, 4.0)
				So(devs[1].PerformanceRating, ShouldBeNil)
			})
		})

		Convey("When a user is replaced", func() {
			store.PutUser(model.Candidate{ID: "u1", Name: "Ada L.", Role: model.RoleDeveloper})
			devs, _ := store.FindByRole(ctx, model.RoleDeveloper)

			Convey("Then it should keep its position", func() {
				So(len(devs), ShouldEqual, 2)
				So(devs[0].Name, ShouldEqual, "Ada L.")
			})
		})

		Convey("When the context is cancelled", func() {
			cctx, cancel := context.WithCancel(ctx)
			cancel()
			_, err := store.FindByRole(cctx, model.RoleDeveloper)
			So(errors.Is(err, context.Canceled), ShouldBeTrue)
		})

		Convey("Ping and Close should succeed", func() {
			So(store.Ping(ctx), ShouldBeNil)
			So(store.Close(), ShouldBeNil)
		})
	})
}

func TestSeed(t *testing.T) {
	Convey("Given seed documents", t, func() {
		Convey("When the YAML is valid", func() {
			seed, err := ParseSeed([]byte(`
projects:
  - id: p1
    name: Storefront
    languages: [Python, React]
users:
  - id: u1
    name: Ada
    role: DEVELOPER
    skills: [Python]
    experience: 4
    currentWorkload: 1
  - id: u2
    role: DEVELOPER
    skills: [React]
    performanceRating: 4.5
`))

			Convey("Then it should decode into the domain model", func() {
				So(err, ShouldBeNil)
				So(seed.Projects[0].RequiredSkills, ShouldResemble, []string{"Python", "React"})
				So(seed.Users[0].ExperienceYears, ShouldEqual, 4.0)
				So(seed.Users[0].PerformanceRating, ShouldBeNil)
				So(*seed.Users[1].PerformanceRating, ShouldEqual, 4.5)
			})
		})

		Convey("When ids repeat", func() {
			_, err := ParseSeed([]byte("users:\n  - id: u1\n  - id: u1\n"))
			So(errors.Is(err, ErrInvalidSeed), ShouldBeTrue)
		})

		Convey("When a project has no id", func() {
			_, err := ParseSeed([]byte("projects:\n  - name: nameless\n"))
			So(errors.Is(err, ErrInvalidSeed), ShouldBeTrue)
		})

		Convey("When the YAML is malformed", func() {
			_, err := ParseSeed([]byte("projects: [\n"))
			So(errors.Is(err, ErrInvalidSeed), ShouldBeTrue)
		})

		Convey("When a seed is marshalled and parsed back", func() {
			out, err := testSeed().Marshal()
			So(err, ShouldBeNil)
			back, err := ParseSeed(out)
			So(err, ShouldBeNil)
			So(back.Users[0].Name, ShouldEqual, "Ada")
			So(back.Projects[0].RequiredSkills, ShouldResemble, []string{"Python", "React"})
		})
	})
}
