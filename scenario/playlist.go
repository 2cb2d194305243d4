package scenario

import (
	"context"

	"github.com/wfunc/turnsim/playlist"
	"github.com/wfunc/turnsim/state"
)

const bollywood = "Bollywood Vibes"

func Playlist(ctx context.Context, env Env) error {
	p := playlist.NewPlayer(playlist.NewManager(), &playlist.Library{}, env.Source, env.Out)

	lib := p.Library()
	lib.Add("Kesariya", "Arijit Singh", "/music/kesariya.mp3")
	lib.Add("Chaiyya Chaiyya", "Sukhwinder Singh", "/music/chaiyya_chaiyya.mp3")
	lib.Add("Tum Hi Ho", "Arijit Singh", "/music/tum_hi_ho.mp3")
	lib.Add("Jai Ho", "A. R. Rahman", "/music/jai_ho.mp3")
	lib.Add("Zinda", "Siddharth Mahadevan", "/music/zinda.mp3")

	if _, err := p.Playlists().Create(bollywood); err != nil {
		return err
	}
	for _, title := range []string{"Kesariya", "Chaiyya Chaiyya", "Tum Hi Ho", "Jai Ho"} {
		if err := p.AddToPlaylist(bollywood, title); err != nil {
			return err
		}
	}

	script := state.NewScript(
		playlist.Action{Kind: playlist.ConnectDevice, Arg: string(playlist.Bluetooth)},
		playlist.Action{Kind: playlist.SelectPlay, Arg: string(playlist.SequentialType)},
		playlist.Action{Kind: playlist.LoadPlaylist, Arg: bollywood},
		playlist.Action{Kind: playlist.PlayAllTracks},

		playlist.Action{Kind: playlist.SelectPlay, Arg: string(playlist.RandomType)},
		playlist.Action{Kind: playlist.LoadPlaylist, Arg: bollywood},
		playlist.Action{Kind: playlist.NextTrack},
		playlist.Action{Kind: playlist.NextTrack},

		playlist.Action{Kind: playlist.ConnectDevice, Arg: string(playlist.Headphones)},
		playlist.Action{Kind: playlist.SelectPlay, Arg: string(playlist.CustomQueueType)},
		playlist.Action{Kind: playlist.LoadPlaylist, Arg: bollywood},
		playlist.Action{Kind: playlist.EnqueueSong, Arg: "Zinda"},
		playlist.Action{Kind: playlist.NextTrack},
		playlist.Action{Kind: playlist.NextTrack},
		playlist.Action{Kind: playlist.PauseSong, Arg: "Kesariya"},
		playlist.Action{Kind: playlist.PlaySong, Arg: "Kesariya"},
		playlist.Action{Kind: playlist.PreviousTrack},
	)
	_, err := state.Drive(ctx, p, script)
	return err
}
