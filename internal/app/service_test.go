package service_test

import (
	"context"
	"errors"
	"testing"

	service "github.com/okian/runboard/internal/app"
	"github.com/okian/runboard/internal/domain/types"
	"github.com/okian/runboard/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	// Initialize logging for tests
	err := logger.Init()
	if err != nil {
		panic(err)
	}
}

// fakeStore records calls and returns canned results.
type fakeStore struct {
	initErr  error
	addErr   error
	readErr  error
	added    []types.Entry
	pages    []types.Page
	filters  []types.Filter
	entries  []types.Entry
	inits    int
	closed   bool
	countErr error
}

func (f *fakeStore) Initialize(ctx context.Context) error {
	f.inits++
	return f.initErr
}

func (f *fakeStore) AddEntry(ctx context.Context, e types.Entry) error {
	if f.addErr != nil {
		return f.addErr
	}
	f.added = append(f.added, e)
	return nil
}

func (f *fakeStore) GetEntries(ctx context.Context, p types.Page) ([]types.Entry, error) {
	f.pages = append(f.pages, p)
	return f.entries, f.readErr
}

func (f *fakeStore) GetAllEntries(ctx context.Context, flt types.Filter) ([]types.Entry, error) {
	f.filters = append(f.filters, flt)
	return f.entries, f.readErr
}

func (f *fakeStore) Count(ctx context.Context, flt types.Filter) (int64, error) {
	if f.countErr != nil {
		return 0, f.countErr
	}
	if flt.HardmodeOnly {
		return 1, nil
	}
	return int64(len(f.entries)), nil
}

func (f *fakeStore) Ping(ctx context.Context) error { return f.readErr }

func (f *fakeStore) Close() error {
	f.closed = true
	return nil
}

func TestService_Lifecycle(t *testing.T) {
	Convey("Given a service over a fake store", t, func() {
		ctx := context.Background()
		store := &fakeStore{}
		svc := service.New(store, service.WithLogger(logger.Named("test")))

		Convey("When calling operations before Start", func() {
			Convey("Then they report the service is not started", func() {
				So(svc.Submit(ctx, types.Entry{Name: "A"}), ShouldEqual, service.ErrNotStarted)
				_, err := svc.List(ctx, service.Query{Limit: 1})
				So(err, ShouldEqual, service.ErrNotStarted)
				So(svc.Ping(ctx), ShouldEqual, service.ErrNotStarted)
				So(svc.GetStats(ctx)["started"], ShouldEqual, false)
			})
		})

		Convey("When starting twice", func() {
			So(svc.Start(ctx), ShouldBeNil)
			So(svc.Start(ctx), ShouldBeNil)

			Convey("Then the store is initialized once", func() {
				So(store.inits, ShouldEqual, 1)
			})

			Convey("And Stop closes the store", func() {
				svc.Stop()
				So(store.closed, ShouldBeTrue)
				So(svc.Ping(ctx), ShouldEqual, service.ErrNotStarted)
			})
		})

		Convey("When store initialization fails", func() {
			store.initErr = errors.New("disk full")
			err := svc.Start(ctx)

			Convey("Then Start returns the failure and the service stays stopped", func() {
				So(err, ShouldEqual, store.initErr)
				So(svc.GetStats(ctx)["started"], ShouldEqual, false)
			})
		})
	})
}

func TestService_SubmitAndList(t *testing.T) {
	Convey("Given a started service", t, func() {
		ctx := context.Background()
		store := &fakeStore{entries: []types.Entry{{ID: 1, Name: "Bob", Time: 90}}}
		svc := service.New(store)
		So(svc.Start(ctx), ShouldBeNil)
		defer svc.Stop()

		Convey("When submitting an entry", func() {
			e := types.Entry{Name: "Alice", Time: 120, Items: 5}
			err := svc.Submit(ctx, e)

			Convey("Then it is forwarded to the store unchanged", func() {
				So(err, ShouldBeNil)
				So(store.added, ShouldResemble, []types.Entry{e})
			})
		})

		Convey("When the store rejects a submission", func() {
			store.addErr = errors.New("constraint failed")
			err := svc.Submit(ctx, types.Entry{Name: "X"})

			Convey("Then the error reaches the caller", func() {
				So(err, ShouldEqual, store.addErr)
				So(len(store.added), ShouldEqual, 0)
			})
		})

		Convey("When listing a page", func() {
			entries, err := svc.List(ctx, service.Query{Limit: 10, Offset: 20, Hardmode: true})

			Convey("Then the page and filter are passed through", func() {
				So(err, ShouldBeNil)
				So(entries, ShouldResemble, store.entries)
				So(store.pages, ShouldResemble, []types.Page{{
					Filter: types.Filter{HardmodeOnly: true},
					Limit:  10,
					Offset: 20,
				}})
				So(len(store.filters), ShouldEqual, 0)
			})
		})

		Convey("When listing all", func() {
			_, err := svc.List(ctx, service.Query{All: true, Limit: 1, Offset: 5})

			Convey("Then limit and offset are ignored", func() {
				So(err, ShouldBeNil)
				So(len(store.pages), ShouldEqual, 0)
				So(store.filters, ShouldResemble, []types.Filter{{}})
			})
		})

		Convey("When reading stats", func() {
			stats := svc.GetStats(ctx)

			Convey("Then counts come from the store", func() {
				So(stats["started"], ShouldEqual, true)
				So(stats["entries"], ShouldEqual, int64(1))
				So(stats["hardmodeEntries"], ShouldEqual, int64(1))
			})
		})

		Convey("When counting fails", func() {
			store.countErr = errors.New("locked")
			stats := svc.GetStats(ctx)

			Convey("Then stats omit the counts", func() {
				So(stats["started"], ShouldEqual, true)
				_, ok := stats["entries"]
				So(ok, ShouldBeFalse)
			})
		})
	})
}
