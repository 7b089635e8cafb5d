package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"SjavsClient/config"
	"SjavsClient/internal/deck"
	"SjavsClient/internal/game"
	"SjavsClient/internal/gateway"
	"SjavsClient/internal/layout"
	"SjavsClient/internal/render"
	"SjavsClient/internal/utils"
)

func main() {
	config.Load()
	utils.Init(config.C.Log.Level)

	client := gateway.NewClient(config.C.Authority.Host, config.C.Authority.Port)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	session, err := client.Join(ctx, config.C.Player.Name)
	if err != nil {
		utils.Print.Error("Join failed", "err", err)
		os.Exit(1)
	}
	utils.Print.Info("Joined table", "seat", session.Seat, "msg", session.Message)

	var notices render.NoticeLog
	loop := game.NewLoop(game.Options{
		Authority: client,
		Seat:      layout.Seat(session.Seat),
		Events:    config.C.Poll.Events,
		State:     config.C.Poll.State,
		Notify: func(msg string) {
			notices.Add(msg)
			fmt.Println("* " + msg)
		},
		Render: func(v game.View) {
			fmt.Println(render.Table(v))
		},
		Log: utils.Print,
	})

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)

	errc := make(chan error, 1)
	go func() { errc <- loop.Run(ctx) }()

	go repl(loop)

	select {
	case sig := <-sigs:
		utils.Print.Info("Shutting down", "signal", sig)
		cancel()
		<-errc
	case err := <-errc:
		if err != nil && !errors.Is(err, context.Canceled) {
			utils.Print.Error("Session ended", "err", err)
			os.Exit(1)
		}
	}
}

// repl reads commands from stdin and feeds them to the loop. Anything it
// does not recognise goes to the authority verbatim.
func repl(loop *game.Loop) {
	sc := bufio.NewScanner(os.Stdin)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		fields := strings.Fields(line)
		switch strings.ToLower(fields[0]) {
		case "p", "play":
			if len(fields) < 2 {
				fmt.Println("usage: p <card>  (e.g. p KC)")
				continue
			}
			loop.PlayCard(deck.Card(strings.ToUpper(fields[1])))
		case "declare":
			loop.DeclareBest()
		case "pass":
			loop.PassMeld()
		case "bots":
			loop.RequestBots()
		case "split":
			if len(fields) < 2 {
				fmt.Println("usage: split <n>")
				continue
			}
			n, err := strconv.Atoi(fields[1])
			if err != nil {
				fmt.Println("usage: split <n>")
				continue
			}
			loop.Split(n)
		case "banka":
			loop.Banka()
		default:
			loop.Submit(line)
		}
	}
}
