// Package gating decides which top-level screen the client renders. The
// decision is a single pure function over the gating flags, evaluated in
// strict priority order, so every transition is testable in isolation from
// rendering.
package gating

import "github.com/Tecnolosic/rompeelciclo/internal/model"

type Screen int

const (
	// ScreenLoading is shown until session existence has been resolved.
	ScreenLoading Screen = iota
	// ScreenLanding is the anonymous landing page.
	ScreenLanding
	// ScreenOffer is the pre-auth offer page after the user chose to start.
	ScreenOffer
	// ScreenOnboarding runs the contract / auth / quiz / profile sequence.
	ScreenOnboarding
	// ScreenVerification gates unverified non-guest users.
	ScreenVerification
	// ScreenBunker is the orthogonal focus-lock overlay.
	ScreenBunker
	// ScreenMain is the five-section application shell.
	ScreenMain
)

func (s Screen) String() string {
	switch s {
	case ScreenLoading:
		return "loading"
	case ScreenLanding:
		return "landing"
	case ScreenOffer:
		return "offer"
	case ScreenOnboarding:
		return "onboarding"
	case ScreenVerification:
		return "verification"
	case ScreenBunker:
		return "bunker"
	case ScreenMain:
		return "main"
	}
	return "unknown"
}

// Flags is everything the routing decision depends on.
type Flags struct {
	SessionResolved bool
	HasSession      bool
	ChoseStart      bool // user tapped "start" on the landing page
	ChoseAuth       bool // user chose to authenticate (login link)
	Onboarded       bool
	Verified        bool
	Guest           bool
	IdentityName    string
	Bunker          bool
}

// IsGuest reports whether the flags describe a guest session, either chosen
// explicitly or inferred from the sentinel identity name.
func (f Flags) IsGuest() bool {
	return f.Guest || f.IdentityName == model.GuestName
}

// Resolve maps flags to the screen to render. First match wins; the order
// below is the contract.
func Resolve(f Flags) Screen {
	if !f.SessionResolved {
		return ScreenLoading
	}

	if !f.HasSession && !f.IsGuest() {
		if f.ChoseAuth {
			return ScreenOnboarding
		}
		if f.ChoseStart {
			return ScreenOffer
		}
		return ScreenLanding
	}

	if !f.Onboarded {
		return ScreenOnboarding
	}

	if !f.Verified && !f.IsGuest() {
		return ScreenVerification
	}

	if f.Bunker {
		return ScreenBunker
	}

	return ScreenMain
}
