package types_test

import (
	"encoding/json"
	"testing"

	"github.com/okian/playerdex/internal/domain/model"
	types "github.com/okian/playerdex/internal/domain/types"
	. "github.com/smartystreets/goconvey/convey"
)

func TestPlayerView(t *testing.T) {
	Convey("Given a rated player", t, func() {
		p := model.PlayerRecord{ID: "1", ShortName: "L. Messi", LongName: "Lionel Messi", Positions: "RW"}.Player()
		p.Add(9.0)
		p.Add(8.0)

		Convey("When converting it to a view", func() {
			v := types.NewPlayerView(*p)

			Convey("Then rating statistics should be carried over", func() {
				So(v.ID, ShouldEqual, "1")
				So(v.LongName, ShouldEqual, "Lionel Messi")
				So(v.Rating, ShouldEqual, 8.5)
				So(v.Count, ShouldEqual, 2)
			})
		})

		Convey("When converting a user rating", func() {
			vs := types.NewUserRatingViews([]model.UserRating{{Player: *p, UserRating: 9.0}})

			Convey("Then the flattened JSON should carry both ratings", func() {
				raw, err := json.Marshal(vs[0])
				So(err, ShouldBeNil)
				var m map[string]any
				So(json.Unmarshal(raw, &m), ShouldBeNil)
				So(m["sofifa_id"], ShouldEqual, "1")
				So(m["user_rating"], ShouldEqual, 9.0)
				So(m["rating"], ShouldEqual, 8.5)
				So(m["count"], ShouldEqual, 2.0)
			})
		})
	})

	Convey("Given no players", t, func() {
		Convey("Then the view list should encode as an empty array", func() {
			raw, err := json.Marshal(types.NewPlayerViews(nil))
			So(err, ShouldBeNil)
			So(string(raw), ShouldEqual, "[]")
		})
	})
}
