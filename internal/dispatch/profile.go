package dispatch

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jwebster45206/mythgarden-console/pkg/snapshot"
)

// UserData carries the profile fields to change. Empty fields are left alone.
type UserData struct {
	Name         string `json:"name,omitempty"`
	PortraitPath string `json:"portraitPath,omitempty"`
}

type userDataRequest struct {
	UserData UserData `json:"userData"`
}

type userDataResponse struct {
	Hero     *snapshot.Hero     `json:"hero"`
	Messages []snapshot.Message `json:"messages"`
}

// UpdateUserData saves profile changes. Only the hero and messages of the
// response are applied.
func (d *Dispatcher) UpdateUserData(ctx context.Context, data UserData) Result {
	res := d.begin("user_data")

	body, err := d.transport.PostJSON(ctx, UserDataPath, res.RequestID, userDataRequest{UserData: data})
	if err != nil {
		return d.fail(res, err)
	}
	return d.decode(res, body, func(p *snapshot.Partial) error {
		var resp userDataResponse
		if err := json.Unmarshal(body, &resp); err != nil {
			return err
		}
		p.Hero = resp.Hero
		p.Messages = resp.Messages
		return nil
	})
}

// FetchSettings loads the challenge options.
func (d *Dispatcher) FetchSettings(ctx context.Context) (snapshot.Settings, Result) {
	res := d.begin("settings")

	body, err := d.transport.GetJSON(ctx, SettingsPath, res.RequestID)
	if err != nil {
		return snapshot.Settings{}, d.fail(res, err)
	}
	return d.settings(res, body)
}

// UpdateSettings posts draft changes, keyed by their json names
// ("draft_villagers_move"), and returns the settings the server now holds.
func (d *Dispatcher) UpdateSettings(ctx context.Context, changes map[string]any) (snapshot.Settings, Result) {
	res := d.begin("settings")

	body, err := d.transport.PostJSON(ctx, SettingsPath, res.RequestID, changes)
	if err != nil {
		return snapshot.Settings{}, d.fail(res, err)
	}
	return d.settings(res, body)
}

func (d *Dispatcher) settings(res Result, body []byte) (snapshot.Settings, Result) {
	var s snapshot.Settings
	res = d.decode(res, body, func(p *snapshot.Partial) error {
		if err := json.Unmarshal(body, &s); err != nil {
			return err
		}
		p.Settings = &s
		return nil
	})
	return s, res
}

// Restart asks the server to reset the run to the start of the week. The
// caller reloads the game page afterwards.
func (d *Dispatcher) Restart(ctx context.Context) Result {
	res := d.begin("restart")
	if _, err := d.transport.GetJSON(ctx, RestartPath, res.RequestID); err != nil {
		return d.fail(res, fmt.Errorf("restart: %w", err))
	}
	d.logResult(res)
	return res
}
