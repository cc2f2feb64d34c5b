package http

import (
	stdhttp "net/http"
	"testing"
)

func TestCreateListAndDeleteTown(t *testing.T) {
	env := newTestEnv(t)

	created := env.createTown(t, "Test Town", true)
	if created.TownID == "" || created.TownUpdatePassword == "" {
		t.Fatalf("incomplete create response: %+v", created)
	}

	var listing ListTownsResponse
	if status := env.doJSON(t, stdhttp.MethodGet, "/api/towns", "", nil, &listing); status != stdhttp.StatusOK {
		t.Fatalf("list status = %d", status)
	}
	if len(listing.Towns) != 1 || listing.Towns[0].ID != created.TownID || listing.Towns[0].FriendlyName != "Test Town" {
		t.Fatalf("unexpected listing: %+v", listing.Towns)
	}

	var errResp ErrorResponse
	status := env.doJSON(t, stdhttp.MethodDelete, "/api/towns/"+created.TownID, "", DeleteTownRequest{Password: "wrong"}, &errResp)
	if status != stdhttp.StatusUnauthorized {
		t.Fatalf("delete with wrong password status = %d", status)
	}

	status = env.doJSON(t, stdhttp.MethodDelete, "/api/towns/"+created.TownID, "", DeleteTownRequest{Password: created.TownUpdatePassword}, nil)
	if status != stdhttp.StatusNoContent {
		t.Fatalf("delete status = %d", status)
	}

	if status := env.doJSON(t, stdhttp.MethodGet, "/api/towns", "", nil, &listing); status != stdhttp.StatusOK {
		t.Fatalf("list status = %d", status)
	}
	if len(listing.Towns) != 0 {
		t.Fatalf("deleted town still listed: %+v", listing.Towns)
	}
}

func TestPrivateTownNotListed(t *testing.T) {
	env := newTestEnv(t)
	env.createTown(t, "Hidden Town", false)

	var listing ListTownsResponse
	if status := env.doJSON(t, stdhttp.MethodGet, "/api/towns", "", nil, &listing); status != stdhttp.StatusOK {
		t.Fatalf("list status = %d", status)
	}
	if len(listing.Towns) != 0 {
		t.Fatalf("private town should not be listed: %+v", listing.Towns)
	}
}

func TestUpdateTownPartial(t *testing.T) {
	env := newTestEnv(t)
	created := env.createTown(t, "Old Name", true)

	newName := "New Name"
	status := env.doJSON(t, stdhttp.MethodPatch, "/api/towns/"+created.TownID, "", UpdateTownRequest{
		Password:     created.TownUpdatePassword,
		FriendlyName: &newName,
	}, nil)
	if status != stdhttp.StatusNoContent {
		t.Fatalf("update status = %d", status)
	}

	joined := env.joinTown(t, created.TownID, "ann")
	if joined.FriendlyName != "New Name" || !joined.IsPubliclyListed {
		t.Fatalf("partial update applied wrong fields: %+v", joined)
	}

	status = env.doJSON(t, stdhttp.MethodPatch, "/api/towns/"+created.TownID, "", UpdateTownRequest{
		Password:     "wrong",
		FriendlyName: &newName,
	}, nil)
	if status != stdhttp.StatusUnauthorized {
		t.Fatalf("update with wrong password status = %d", status)
	}
}

func TestJoinTown(t *testing.T) {
	env := newTestEnv(t)
	created := env.createTown(t, "Join Town", true)

	joined := env.joinTown(t, created.TownID, "ann")
	if joined.PlayerID == "" || joined.SessionToken == "" {
		t.Fatalf("incomplete join response: %+v", joined)
	}
	if joined.VideoToken != "video-"+joined.PlayerID {
		t.Fatalf("video token = %q", joined.VideoToken)
	}
	if len(joined.CurrentPlayers) != 1 || joined.CurrentPlayers[0].UserName != "ann" {
		t.Fatalf("unexpected current players: %+v", joined.CurrentPlayers)
	}

	second := env.joinTown(t, created.TownID, "bob")
	if len(second.CurrentPlayers) != 2 {
		t.Fatalf("expected 2 current players, got %d", len(second.CurrentPlayers))
	}
	if second.SessionToken == joined.SessionToken {
		t.Fatal("session tokens must be unique")
	}
}

func TestJoinUnknownTown(t *testing.T) {
	env := newTestEnv(t)

	var errResp ErrorResponse
	status := env.doJSON(t, stdhttp.MethodPost, "/api/towns/no-such-town/join", "", JoinTownRequest{UserName: "ann"}, &errResp)
	if status != stdhttp.StatusNotFound {
		t.Fatalf("join unknown town status = %d", status)
	}
	if errResp.Error != "no such town" {
		t.Fatalf("unexpected error body: %+v", errResp)
	}
}

func TestJoinFailsWhenVideoProviderDown(t *testing.T) {
	env := newTestEnv(t)
	created := env.createTown(t, "No Video Town", true)
	env.video.err = stdhttp.ErrAbortHandler // any error will do

	status := env.doJSON(t, stdhttp.MethodPost, "/api/towns/"+created.TownID+"/join", "", JoinTownRequest{UserName: "ann"}, nil)
	if status != stdhttp.StatusBadGateway {
		t.Fatalf("join with failing video provider status = %d", status)
	}

	town, ok := env.registry.GetTown(created.TownID)
	if !ok {
		t.Fatal("town should still exist")
	}
	if town.Occupancy() != 0 {
		t.Fatal("failed join must leave no session behind")
	}
}
