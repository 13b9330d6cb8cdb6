// app walks the full client scenario against the stub collaborators:
// initialize the session, log in, view the map, file a report, and log out.
package main

import (
	"context"
	"log"

	"altanto/app/internal/config"
	locdomain "altanto/app/internal/location/domain"
	locprovider "altanto/app/internal/location/provider"
	"altanto/app/internal/media"
	"altanto/app/internal/nav"
	reportdomain "altanto/app/internal/report/domain"
	reportservice "altanto/app/internal/report/service"
	reportstore "altanto/app/internal/report/store"
	"altanto/app/internal/report/submit"
	"altanto/app/internal/routeguard"
	"altanto/app/internal/security"
	sessionservice "altanto/app/internal/session/service"
	sessionstore "altanto/app/internal/session/store"
	"altanto/app/internal/store"

	sessiondomain "altanto/app/internal/session/domain"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	db, err := store.Open(cfg.StorePath)
	if err != nil {
		log.Fatalf("store: %v", err)
	}
	defer db.Close()

	ctx := context.Background()
	fallback := locdomain.Coordinate{Latitude: cfg.DefaultLat, Longitude: cfg.DefaultLon}

	tokens := security.NewTokenProvider([]byte(cfg.TokenSecret), cfg.TokenIssuer, cfg.TokenTTLDuration())
	sessions := sessionservice.NewManager(sessionstore.NewSQLite(db), tokens)
	guard := routeguard.New(sessions)
	defer guard.Close()
	router := nav.NewRouter(guard)
	unsubscribe := sessions.Subscribe(func(sessiondomain.Session) { router.Revalidate() })
	defer unsubscribe()

	s := sessions.Initialize(ctx)
	log.Printf("session resolved: authenticated=%v", s.Authenticated)

	if _, d := router.Navigate("/map"); d.Allow {
		log.Printf("landed on %s", router.Current().Path())
	}
	if cur := router.Current(); cur == nil || cur.Path() != "/map" {
		log.Printf("not authenticated; logging in")
		sessions.Login(ctx)
		if _, d := router.Navigate("/map"); !d.Allow {
			log.Fatalf("navigate /map after login: %+v", d)
		}
	}

	// Map screen: acquire the map, try a device fix, read the incident feed.
	provider := locprovider.New(&locprovider.HeadlessRenderer{},
		&locprovider.FixedGeolocator{Coord: fallback},
		locprovider.GeoOptions{
			HighAccuracy: cfg.GeoHighAccuracy,
			Timeout:      cfg.GeoTimeoutDuration(),
			MaximumAge:   cfg.GeoMaxAgeDuration(),
		})
	mapScreen := router.Current()
	handle, err := provider.Acquire("main-map", fallback, cfg.MapZoom)
	if err != nil {
		log.Fatalf("acquire map: %v", err)
	}
	mapScreen.OnUnmount(func() { provider.Release(handle) })

	if coord, err := provider.LocateDevice(mapScreen.Context(), handle); err != nil {
		log.Printf("locate device: %v (view unchanged)", err)
	} else {
		log.Printf("device at (%.4f, %.4f)", coord.Latitude, coord.Longitude)
	}

	archive := reportstore.NewSQLite(db)
	if feed, err := archive.Recent(ctx, 5); err == nil {
		log.Printf("incident feed: %d recent reports", len(feed))
	}

	// Create-report screen: pick a category and capture the location.
	if _, d := router.Navigate("/create-report"); !d.Allow {
		log.Fatalf("navigate /create-report: %+v", d)
	}
	workflow := reportservice.NewWorkflow(
		&submit.Stub{Delay: cfg.SubmitDelayDuration()}, archive, &fallback)
	if _, err := workflow.SelectCategory(1); err != nil {
		log.Fatalf("select category: %v", err)
	}
	if _, err := workflow.CaptureLocation(nil); err != nil { // no fix yet, fallback
		log.Fatalf("capture location: %v", err)
	}
	resolver := &locprovider.StubResolver{Delay: cfg.ResolveDelayDuration()}
	if loc, ok := workflow.Location(); ok {
		if addr, err := resolver.Address(ctx, loc); err == nil {
			log.Printf("reporting near %s", addr)
		}
	}

	// Report form: attach media, describe, submit.
	if _, d := router.Navigate("/report-form"); !d.Allow {
		log.Fatalf("navigate /report-form: %+v", d)
	}
	var attachment media.Attachment
	png := []byte{0x89, 'P', 'N', 'G', 0x0d, 0x0a, 0x1a, 0x0a, 0, 0, 0, 0}
	var mediaRef *reportdomain.MediaRef
	if asset, err := attachment.Attach(png); err != nil {
		log.Printf("attach: %v", err)
	} else {
		mediaRef = &reportdomain.MediaRef{ContentType: asset.MIME}
		defer attachment.Detach(asset)
	}

	formScreen := router.Current()
	receipt, err := workflow.Submit(formScreen.Context(), "Persona sospechosa", mediaRef)
	if err != nil {
		log.Fatalf("submit: %v", err)
	}

	if _, d := router.Navigate("/report-loaded"); !d.Allow {
		log.Fatalf("navigate /report-loaded: %+v", d)
	}
	log.Printf("report %s submitted: %s at (%.4f, %.4f) on %s",
		receipt.ReportID, receipt.CategoryName,
		receipt.Coordinate.Latitude, receipt.Coordinate.Longitude,
		receipt.SubmittedAt.Format("2006-01-02 15:04:05"))

	sessions.Logout(ctx)
	if cur := router.Current(); cur != nil {
		log.Printf("after logout: %s", cur.Path())
	}
}
