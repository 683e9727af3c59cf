package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/rs/zerolog/log"

	contractx "github.com/leadpilot-ai/leadpilot/agent/contract"
	crmx "github.com/leadpilot-ai/leadpilot/agent/crm"
	icpx "github.com/leadpilot-ai/leadpilot/agent/icp"
	interactionx "github.com/leadpilot-ai/leadpilot/agent/interaction"
	leadsx "github.com/leadpilot-ai/leadpilot/agent/leads"
	memoryx "github.com/leadpilot-ai/leadpilot/agent/memory"
	outreachx "github.com/leadpilot-ai/leadpilot/agent/outreach"
	plannerx "github.com/leadpilot-ai/leadpilot/agent/planner"
	scrapex "github.com/leadpilot-ai/leadpilot/agent/scrape"
	tasksx "github.com/leadpilot-ai/leadpilot/agent/tasks"
	toolx "github.com/leadpilot-ai/leadpilot/agent/tool"
	apifyx "github.com/leadpilot-ai/leadpilot/pkg/apify"
	apollox "github.com/leadpilot-ai/leadpilot/pkg/apollo"
	configx "github.com/leadpilot-ai/leadpilot/pkg/config"
	deepseekx "github.com/leadpilot-ai/leadpilot/pkg/deepseek"
	_ "github.com/leadpilot-ai/leadpilot/pkg/logger/autoload"
)

type AppConfig struct {
	DataDir string `envconfig:"DATA_DIR" split_words:"true" default:"data"`
}

func main() {
	appCfg := configx.MustNew[AppConfig]("")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := memoryx.NewFileStore(filepath.Join(appCfg.DataDir, "memory.json"))
	if err != nil {
		log.Fatal().Err(err).Msg("init memory store")
	}
	gate := interactionx.NewGate(store)

	ledger, err := leadsx.NewLedger(filepath.Join(appCfg.DataDir, "leads.csv"))
	if err != nil {
		log.Fatal().Err(err).Msg("init lead ledger")
	}

	apolloCfg := configx.MustNew[apollox.Config]("APOLLO")
	apifyCfg := configx.MustNew[apifyx.Config]("APIFY")
	local := leadsx.NewLocalSource(ledger)
	chain := []contractx.LeadSource{
		leadsx.NewApolloSource(apollox.NewClient(*apolloCfg)),
		leadsx.NewApifySource(apifyx.NewClient(*apifyCfg)),
		local,
	}

	leadsCfg := configx.MustNew[leadsx.Config]("")
	orch, err := leadsx.NewOrchestrator(*leadsCfg, chain, local, ledger, gate, store)
	if err != nil {
		log.Fatal().Err(err).Msg("init lead orchestrator")
	}

	crmCfg := configx.MustNew[crmx.Config]("CRM")
	crmLog, err := crmx.New(ctx, *crmCfg)
	if err != nil {
		log.Fatal().Err(err).Msg("init crm")
	}

	deepseekCfg := configx.MustNew[deepseekx.Config]("DEEPSEEK")
	llm := deepseekx.NewClient(*deepseekCfg)
	if llm == nil {
		log.Fatal().Msg("DEEPSEEK_API_KEY is required")
	}

	scrapeCfg := configx.MustNew[scrapex.Config]("SCRAPE")
	outreachCfg := configx.MustNew[outreachx.Config]("OUTREACH")

	exec := toolx.NewExecutor(toolx.Deps{
		Leads:   orch,
		ICP:     icpx.NewGenerator(gate),
		Scraper: scrapex.NewScraper(*scrapeCfg),
		Writer:  outreachx.NewWriter(*outreachCfg, llm),
		Sender:  outreachx.NewLocalSender(filepath.Join(appCfg.DataDir, "outbox")),
		CRM:     crmLog,
		Tasks:   tasksx.NewManager(filepath.Join(appCfg.DataDir, "tasks.md")),
		Gate:    gate,
		Store:   store,
	})

	plannerCfg := configx.MustNew[plannerx.Config]("PLANNER")
	agent, err := plannerx.New(*plannerCfg, llm, exec)
	if err != nil {
		log.Fatal().Err(err).Msg("init planner")
	}

	// A goal passed on the command line runs once and exits.
	if args := flag.Args(); len(args) > 0 {
		reply, err := agent.Run(ctx, strings.Join(args, " "))
		if err != nil {
			log.Fatal().Err(err).Msg("run failed")
		}
		fmt.Println(reply)
		return
	}

	fmt.Println("LeadPilot ready. Describe your business and goal, or 'quit' to exit.")
	in := bufio.NewReader(os.Stdin)
	for {
		fmt.Print("> ")
		line, err := in.ReadString('\n')
		goal := strings.TrimSpace(line)
		if goal == "quit" || goal == "exit" || (err != nil && goal == "") {
			fmt.Println("Bye.")
			return
		}
		if goal == "" {
			continue
		}

		reply, err := agent.Run(ctx, goal)
		if err != nil {
			log.Error().Err(err).Msg("run failed")
			fmt.Printf("Something went wrong: %v\n", err)
			continue
		}
		fmt.Println(reply)
	}
}
