package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/guptarohit/asciigraph"
	"github.com/kinviz/kinviz/internal/config"
	"github.com/kinviz/kinviz/internal/gui"
	"github.com/kinviz/kinviz/internal/logger"
	"github.com/kinviz/kinviz/internal/mirror"
	"github.com/kinviz/kinviz/internal/storage"
	"github.com/kinviz/kinviz/internal/tui"
	"github.com/kinviz/kinviz/internal/world"
	"github.com/spf13/cobra"
)

var (
	dataDir    string
	configFile string
	logLevel   string
	logFile    string
	// serve
	webPort    int
	wsPort     int
	assetsDir  string
	tickMult   float64
	playID     string
	useMonitor bool
	// replay
	worldRef   string
	headless   bool
	captureDir string
	videoLog   string
	delayMS    int
	repeat     bool
	saveStart  int
	camWidth   int
	camHeight  int
	// plot
	dofIndex int
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "kinviz",
		Short: "simulation world visualization bridge",
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".kinviz", "recording directory")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug|info|warn|error)")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "log file path")

	serveCmd := &cobra.Command{
		Use:   "serve [world]",
		Short: "serve a world to the browser GUI",
		Args:  cobra.ExactArgs(1),
		RunE:  runServe,
	}
	serveCmd.Flags().IntVar(&webPort, "port", 0, "http port for the browser GUI")
	serveCmd.Flags().IntVar(&wsPort, "ws-port", 0, "websocket port")
	serveCmd.Flags().StringVar(&assetsDir, "assets", "", "browser GUI asset directory")
	serveCmd.Flags().Float64Var(&tickMult, "tick-multiplier", 0, "tick period as a multiple of the world timestep")
	serveCmd.Flags().StringVar(&playID, "play", "", "loop a stored recording on start")
	serveCmd.Flags().BoolVar(&useMonitor, "monitor", false, "show the terminal playback monitor")

	replayCmd := &cobra.Command{
		Use:   "replay [recording_id]",
		Short: "replay a recording through the mirror renderer",
		Args:  cobra.ExactArgs(1),
		RunE:  runReplay,
	}
	replayCmd.Flags().StringVar(&worldRef, "world", "", "preset name or world file (required)")
	replayCmd.Flags().BoolVar(&headless, "headless", true, "suppress the renderer window")
	replayCmd.Flags().StringVar(&captureDir, "capture", "", "write per-frame camera buffers to this directory")
	replayCmd.Flags().StringVar(&videoLog, "video", "", "continuous video log path")
	replayCmd.Flags().IntVar(&delayMS, "delay", 0, "per-frame delay in milliseconds")
	replayCmd.Flags().BoolVar(&repeat, "repeat", false, "repeat until interrupted")
	replayCmd.Flags().IntVar(&saveStart, "save-start", 0, "first capture file index")
	replayCmd.Flags().IntVar(&camWidth, "camera-width", 0, "camera buffer width")
	replayCmd.Flags().IntVar(&camHeight, "camera-height", 0, "camera buffer height")
	replayCmd.MarkFlagRequired("world")

	importCmd := &cobra.Command{
		Use:   "import [world] [states.csv]",
		Short: "import a trajectory CSV as a recording",
		Args:  cobra.ExactArgs(2),
		RunE:  runImport,
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list recordings",
		RunE:  listRecordings,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [recording_id]",
		Short: "plot recorded generalized coordinates",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRecording,
	}
	plotCmd.Flags().IntVar(&dofIndex, "dof", -1, "plot a single coordinate instead of the first six")

	exportCmd := &cobra.Command{
		Use:   "export [recording_id]",
		Short: "export recording metadata",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRecording,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list built-in worlds",
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, name := range config.ListPresets() {
				w, err := config.GetPreset(name).Build()
				if err != nil {
					return err
				}
				fmt.Printf("%-10s %d skeletons, %d dofs\n", name, w.SkeletonCount(), w.DofCount())
			}
			return nil
		},
	}

	rootCmd.AddCommand(serveCmd, replayCmd, importCmd, listCmd, plotCmd, exportCmd, presetsCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfig merges the optional config file over defaults; command flags
// win over both.
func loadConfig() (*config.Config, error) {
	if configFile == "" {
		return config.DefaultConfig(), nil
	}
	return config.Load(configFile)
}

// resolveWorld accepts a preset name or a path to a world YAML file.
func resolveWorld(ref string) (*world.Basic, error) {
	if spec := config.GetPreset(ref); spec != nil {
		return spec.Build()
	}
	if _, err := os.Stat(ref); err != nil {
		return nil, fmt.Errorf("unknown world %q (presets: %s)", ref, strings.Join(config.ListPresets(), ", "))
	}
	return config.LoadWorld(ref)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if !cmd.Flags().Changed("port") {
		webPort = cfg.WebPort
	}
	if !cmd.Flags().Changed("ws-port") {
		wsPort = cfg.WSPort
	}
	if !cmd.Flags().Changed("assets") {
		assetsDir = cfg.AssetsDir
	}
	if !cmd.Flags().Changed("tick-multiplier") {
		tickMult = cfg.TickMultiplier
	}
	if logLevel == "" {
		logLevel = cfg.Log.Level
	}
	if logFile == "" {
		logFile = cfg.Log.File
	}

	w, err := resolveWorld(args[0])
	if err != nil {
		return err
	}

	log := logger.New(logLevel, logFile)
	defer log.Sync()

	sess, err := gui.New(w, nil, gui.Options{
		Backend:        gui.BackendWebsocket,
		AssetsDir:      assetsDir,
		WSPort:         wsPort,
		TickMultiplier: tickMult,
		Logger:         log,
	})
	if err != nil {
		return err
	}
	defer sess.Close()

	if err := sess.Serve(webPort); err != nil {
		return err
	}
	fmt.Printf("serving %s on http://localhost:%d (ws :%d)\n", args[0], webPort, wsPort)

	if playID != "" {
		st := storage.New(dataDir)
		_, traj, err := st.Load(playID)
		if err != nil {
			return err
		}
		if traj.Dofs() != w.DofCount() {
			return fmt.Errorf("recording has %d dofs, world has %d", traj.Dofs(), w.DofCount())
		}
		if err := sess.LoopPositions(traj); err != nil {
			return err
		}
		fmt.Printf("looping recording %s (%d frames)\n", playID, traj.Count())
	}

	if useMonitor {
		ws, ok := sess.(*gui.WebsocketSession)
		if !ok {
			return fmt.Errorf("monitor requires the websocket backend")
		}
		return tui.Run(args[0], ws)
	}

	sess.BlockWhileServing()
	return nil
}

func runReplay(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if !cmd.Flags().Changed("delay") {
		delayMS = cfg.FrameDelayMS
	}
	if !cmd.Flags().Changed("camera-width") {
		camWidth = cfg.Camera.Width
	}
	if !cmd.Flags().Changed("camera-height") {
		camHeight = cfg.Camera.Height
	}
	if logLevel == "" {
		logLevel = cfg.Log.Level
	}
	if logFile == "" {
		logFile = cfg.Log.File
	}

	w, err := resolveWorld(worldRef)
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	meta, traj, err := st.Load(args[0])
	if err != nil {
		return err
	}
	if traj.Dofs() != w.DofCount() {
		return fmt.Errorf("recording %s has %d dofs, world %q has %d", meta.ID, traj.Dofs(), worldRef, w.DofCount())
	}

	log := logger.New(logLevel, logFile)
	defer log.Sync()

	r := mirror.NewMemoryRenderer()
	for i := 0; i < w.SkeletonCount(); i++ {
		sk := w.Skeleton(i)
		names := make([]string, 0, sk.JointCount())
		for j := 0; j < sk.JointCount(); j++ {
			names = append(names, sk.Joint(j).Name())
		}
		r.DefineModel(sk.ResourcePath(), names...)
	}

	sess, err := gui.New(w, r, gui.Options{
		Backend:         gui.BackendMirror,
		Headless:        headless,
		SyntheticCamera: captureDir != "" || videoLog != "",
		CaptureDir:      captureDir,
		VideoLogPath:    videoLog,
		FrameDelay:      cfg.FrameDelay(),
		CameraWidth:     camWidth,
		CameraHeight:    camHeight,
		Logger:          log,
	})
	if err != nil {
		return err
	}
	defer sess.Close()

	states := make([]world.State, traj.Count())
	for i := range states {
		states[i] = traj.Frame(i)
	}

	fmt.Printf("replaying %s: %d frames, %d dofs\n", meta.ID, traj.Count(), traj.Dofs())
	return sess.LoopStates(states, gui.LoopOptions{
		Indefinite: repeat,
		SaveStart:  saveStart,
	})
}

func runImport(cmd *cobra.Command, args []string) error {
	w, err := resolveWorld(args[0])
	if err != nil {
		return err
	}

	traj, err := storage.LoadTrajectoryCSV(args[1])
	if err != nil {
		return err
	}
	if traj.Dofs() != w.DofCount() {
		return fmt.Errorf("%s has %d dofs, world %q has %d", args[1], traj.Dofs(), args[0], w.DofCount())
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}
	id, err := st.Save(args[0], w.TimeStep(), traj)
	if err != nil {
		return err
	}

	fmt.Printf("recording id: %s\n", id)
	fmt.Printf("frames: %d\n", traj.Count())
	return nil
}

func listRecordings(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	recs, err := st.List()
	if err != nil {
		return err
	}

	if len(recs) == 0 {
		fmt.Println("no recordings found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tWORLD\tTIME\tDOFS\tFRAMES\tDT")

	for _, rec := range recs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%.4fs\n",
			rec.ID,
			rec.World,
			rec.Timestamp.Format("2006-01-02 15:04:05"),
			rec.Dofs,
			rec.Frames,
			rec.TimeStep,
		)
	}

	return w.Flush()
}

func plotRecording(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, traj, err := st.Load(args[0])
	if err != nil {
		return err
	}
	if traj.Count() == 0 {
		return fmt.Errorf("no frames to plot")
	}

	fmt.Printf("recording: %s\n", meta.ID)
	fmt.Printf("world: %s\n", meta.World)
	fmt.Printf("frames: %d\n\n", traj.Count())

	first, last := 0, traj.Dofs()
	if dofIndex >= 0 {
		if dofIndex >= traj.Dofs() {
			return fmt.Errorf("dof %d out of range (recording has %d)", dofIndex, traj.Dofs())
		}
		first, last = dofIndex, dofIndex+1
	} else if last > 6 {
		last = 6
	}

	for dof := first; dof < last; dof++ {
		data := make([]float64, traj.Count())
		for i := 0; i < traj.Count(); i++ {
			data[i] = traj.Frame(i)[dof]
		}

		graph := asciigraph.Plot(data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(fmt.Sprintf("q%d vs frame", dof)),
		)
		fmt.Println(graph)
		fmt.Println()
	}

	return nil
}

func exportRecording(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, _, err := st.Load(args[0])
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(meta)
}
