package main

import (
	"log"
	"os"

	"git.lost.host/meutraa/hitcore/internal/config"
	"gopkg.in/alecthomas/kingpin.v2"
)

func main() {
	app := kingpin.New("hitcore", "Judge, score and replay rhythm game plays.")
	app.Version("0.3.0")
	flags := config.Register(app)

	play := app.Command("play", "Play a session in the terminal and save the replay.")
	playFile := play.Arg("session", "Session file").Required().ExistingFile()

	verify := app.Command("verify", "Check that a stored replay reproduces its score.")
	verifyFile := verify.Arg("session", "Session file").Required().ExistingFile()
	verifyID := verify.Arg("replay", "Replay id").Required().String()

	history := app.Command("history", "List stored replays of a session's chart.")
	historyFile := history.Arg("session", "Session file").Required().ExistingFile()

	simulate := app.Command("simulate", "Autoplay a session and print the result.")
	simulateFile := simulate.Arg("session", "Session file").Required().ExistingFile()
	simulateSave := simulate.Flag("save", "Save the replay").Bool()

	cmd := kingpin.MustParse(app.Parse(os.Args[1:]))

	p := NewProgram(flags, os.Stdout)
	var err error
	switch cmd {
	case play.FullCommand():
		err = p.Play(*playFile)
	case verify.FullCommand():
		err = p.Verify(*verifyFile, *verifyID)
	case history.FullCommand():
		err = p.History(*historyFile)
	case simulate.FullCommand():
		err = p.Simulate(*simulateFile, *simulateSave)
	}
	if nil != err {
		log.Fatalln(err)
	}
}
