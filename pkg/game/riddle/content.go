package riddle

import (
	"fmt"
	"time"

	"riddlebox/pkg/game/stages"
)

// Definition is a playable riddle: its registry entry, one stage per index
// and the soundtrack to play at each stage.
type Definition struct {
	Meta
	Stages []stages.Stage
	// Soundtrack returns the audio source for stage, or "" for silence.
	Soundtrack func(stage int) string
}

// Stage returns the stage at index i, clamped to the riddle's range.
func (d Definition) Stage(i int) stages.Stage {
	return d.Stages[max(0, min(i, len(d.Stages)-1))]
}

// Music returns the soundtrack source for stage.
func (d Definition) Music(stage int) string {
	if d.Soundtrack == nil {
		return ""
	}
	return d.Soundtrack(stage)
}

// Soundtrack sources, relative to the configured audio directory.
const (
	OuterWildsTheme = "outer-wilds.mp3"
	LumiereTheme    = "lumiere.mp3"
	WeLostTheme     = "we-lost.mp3"
)

const spiderCooldown = 60 * time.Second

// Definitions returns every playable riddle in registry order.
func Definitions() []Definition {
	return []Definition{theCave(), spiderLair(), outerWilds(), expedition33()}
}

// Find returns the playable definition for id.
func Find(id string) (Definition, error) {
	for _, d := range Definitions() {
		if d.ID == id {
			return d, nil
		}
	}
	return Definition{}, fmt.Errorf("unknown riddle %q", id)
}

func define(id string, s []stages.Stage, soundtrack func(int) string) Definition {
	meta, ok := Lookup(id)
	if !ok {
		panic("riddle: no registry entry for " + id)
	}
	return Definition{Meta: meta, Stages: s, Soundtrack: soundtrack}
}

func theCave() Definition {
	return define("the-cave", []stages.Stage{
		stages.Welcome{
			Base: stages.Base{
				Name: "The Cave Entrance",
				Text: "You stand before a gaping maw in the earth. A cold draft chills your bones.",
			},
			Button: "Enter the Darkness",
		},
		stages.TextAnswer{
			Base: stages.Base{
				Name: "The Narrow Passage",
				Text: "The ceiling lowers. You cannot walk upright. What must you do?",
			},
			Accepted:     []string{"crawl"},
			ErrorMessage: "The path is blocked. Try something else.",
		},
		stages.Continue{
			Base: stages.Base{
				Name: "The Light",
				Text: "You have made it through the crawlspace. You see light ahead.",
			},
			Button: "Leave the Cave",
		},
		stages.Congrats{Base: stages.Base{
			Name: "CONGRATULATIONS",
			Text: "You have completed the pilot module.",
		}},
	}, nil)
}

func spiderLair() Definition {
	text := func(title, prompt, hint, errMsg string, accepted ...string) stages.TextAnswer {
		return stages.TextAnswer{
			Base:         stages.Base{Name: title, Text: prompt, HintText: hint, HintCooldown: spiderCooldown},
			Accepted:     accepted,
			ErrorMessage: errMsg,
		}
	}
	return define("spider-lair", []stages.Stage{
		stages.Welcome{
			Base: stages.Base{
				Name: "The Spider's Lair",
				Text: "Silk threads glisten in the dark. Something waits ahead...",
			},
			Button: "Enter the Webs",
		},
		stages.PinAnswer{
			Base: stages.Base{
				Name:         "The Web Lock",
				Text:         "The spider demands a code. Four numbers... always even.",
				HintText:     "Count by twos...",
				HintCooldown: spiderCooldown,
			},
			Pin: "2468",
		},
		stages.FillWords{
			Base: stages.Base{
				Name:         "Spider Dance",
				Text:         "Complete the lyrics. The spider hums the tune... 2, 4, 6, 8",
				HintText:     "Spider Dance (Undertale)",
				HintCooldown: spiderCooldown,
			},
			Lines: []string{
				"I think it's time for a date",
				"I've got a craving and I think you're my taste",
				"So won't you come out and play?",
				"Darling it's your lucky day",
			},
		},
		text("The Spider's Riddle",
			"\"I sing, I fight, I kill. But mostly kill.\" Who speaks these words?",
			"A singer from Silksong... with claws.",
			"The web rejects your answer...",
			"skarrsinger karmelita", "karmelita"),
		stages.TextAnswer{
			Base: stages.Base{
				Name: "A Question of Acts",
				Text: "How many acts are there to Silksong?",
			},
			Accepted:     []string{"3"},
			ErrorMessage: "The threads tighten... try again.",
		},
		text("A Dark Act",
			"In what act does the plague take hold of Pharloom?",
			"The final act holds the darkest secret...",
			"Wrong answer. The web trembles.",
			"3"),
		text("Allies in Battle",
			"I use them to help against tough opponents...",
			"Small, buzzy, and loyal...",
			"That's not who helps you...",
			"friends", "cogfly"),
		text("What Creature Is This?",
			"A creature woven from silk bars your way. Name it.",
			"Woven from silk, born to destroy...",
			"The creature stares at you, unimpressed...",
			"silk monster", "clawmaiden"),
		text("Name This Place",
			"What's the name of the flat, cold prison deep in Pharloom?",
			"A flat, cold resting place...",
			"That's wrong. Try again.",
			"the slab", "slab"),
		text("Name This Creature",
			"What's the name of this tiny pest?",
			"Small, annoying, and everywhere...",
			"Nope. Think smaller.",
			"mite"),
		text("A Command to Remember",
			"What CLI command does Hornet often use when speaking to the knight?",
			"A version control system...",
			"The spider shakes her head... Not good.",
			"git gud", "git good"),
		stages.Congrats{Base: stages.Base{
			Name: "CONGRATULATIONS",
			Text: "You have escaped the Spider's Lair. Web Status: CLEARED",
		}},
	}, nil)
}

func outerWilds() Definition {
	text := func(title, prompt string, accepted ...string) stages.TextAnswer {
		return stages.TextAnswer{
			Base:     stages.Base{Name: title, Text: prompt},
			Accepted: accepted,
		}
	}
	endOfLoop := text("End of the Loop", "The sun explodes in how many minutes?", "22")
	endOfLoop.ExactOnly = true

	return define("outer-wilds", []stages.Stage{
		stages.Welcome{
			Base:   stages.Base{Name: "Outer Wilds Ventures", Text: "Join the expedition"},
			Button: "Begin",
		},
		endOfLoop,
		text("The Reckless Traveler",
			"Who plays the harmonica deep inside a corrupted seed?",
			"feldspar"),
		stages.Continue{
			Base: stages.Base{
				Name: "Quantum Imaging",
				Text: "The shard only stays put while you are looking at it. Take its picture, then look away.",
			},
			Button: "Take the picture",
		},
		text("The Ancient Architects",
			"They arrived on The Vessel and built the Ash Twin Project. Who are they?",
			"nomai", "the nomai"),
		text("The Ultimate Power",
			"What powers the Ash Twin Project?",
			"supernova", "the sun", "the sun exploding", "sun", "a supernova"),
		stages.Continue{
			Base: stages.Base{
				Name: "The Ghost Matter River",
				Text: "Invisible ghost matter drifts over the river. Cross only where your scout shows the way is clear.",
			},
			Button: "Cross",
		},
		stages.Continue{
			Base: stages.Base{
				Name: "Quantum Entanglement",
				Text: "Stand on the quantum rock and close your eyes. When you open them, you are somewhere else.",
			},
			Button: "Close your eyes",
		},
		text("The Blind Terror",
			"Curse this planet. Which one is it?",
			"dark bramble"),
		stages.PinAnswer{
			Base: stages.Base{
				Name: "Coordinates",
				Text: "Draw the Eye of the Universe coordinates, one digit at a time.",
			},
			Pin: "2906",
		},
		stages.Congrats{Base: stages.Base{
			Name: "Mission Accomplished",
			Text: "You've mapped the stars.",
		}},
	}, func(stage int) string {
		if stage >= 1 && stage < 10 {
			return OuterWildsTheme
		}
		return ""
	})
}

func expedition33() Definition {
	return define("expedition-33", []stages.Stage{
		stages.Welcome{
			Base:   stages.Base{Name: "Lumière", Text: "Join the Expedition"},
			Button: "Enter",
		},
		stages.TextAnswer{
			Base:     stages.Base{Name: "Lovely Feet", Text: "She has lovely feet..."},
			Accepted: []string{"lune"},
		},
		stages.Continue{
			Base: stages.Base{
				Name: "Esquie's Rest",
				Text: "Esquie is sleeping on the path. Wake him gently.",
			},
			Button: "Wake Esquie",
		},
		stages.Continue{
			Base: stages.Base{
				Name: "Incoming Attack",
				Text: "An enemy swings. Dodging? We don't do that here.",
			},
			Button: "Parry",
		},
		stages.TextAnswer{
			Base: stages.Base{
				Name: "The Antagonist",
				Text: "I stand in your way, cane in hand, guarding the Paintress to protect my own. Who am I?",
			},
			Accepted: []string{"reunuar", "renoir"},
		},
		stages.FillWords{
			Base: stages.Base{
				Name: "Team Builder",
				Text: "Fill each slot of the team. Free Aim Spammer, Offense / Damage, Support.",
			},
			Lines: []string{"Verso Maelle Sciel"},
		},
		stages.TextAnswer{
			Base: stages.Base{
				Name: "The Fading Memory",
				Text: "Assaf doesn't understand the mechanics of this 'Foretell' card lady. Who is she?",
			},
			Accepted: []string{"sciel"},
		},
		stages.MultipleChoice{
			Base: stages.Base{
				Name: "Simon's Melody",
				Text: "Which song plays while you fight Simon?",
			},
			Choices: []stages.Choice{
				{Label: "We Lost", Correct: true},
				{Label: "Don't Cry", Correct: true},
				{Label: "Lumière"},
				{Label: "L'Appel du Vide"},
				{Label: "Paintress Waltz"},
				{Label: "Expedition March"},
				{Label: "Clair de Lune"},
				{Label: "Gommage"},
				{Label: "Monoko's Requiem"},
				{Label: "Expedition 0"},
				{Label: "The 33rd Year"},
				{Label: "Echoes of the Paintress"},
				{Label: "Symphony of the End"},
			},
		},
		stages.MultipleChoice{
			Base: stages.Base{
				Name: "The Final Choice",
				Text: "Whose ending do you choose?",
			},
			Choices: []stages.Choice{
				{Label: "Verso", Correct: true},
				{Label: "Maëlle", Correct: true},
			},
		},
		stages.Congrats{Base: stages.Base{
			Name: "The Paintress Falls",
			Text: "You have completed the Expedition.",
		}},
	}, func(stage int) string {
		if stage == 7 {
			return WeLostTheme
		}
		return LumiereTheme
	})
}
