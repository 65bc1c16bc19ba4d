package cli

var (
	verbose    bool
	configPath string

	// for track command
	trackBounds string
	trackOutput string

	// for extract commands
	extractSource    string
	extractAt        int64
	extractOutput    string
	extractFormat    string
	extractQuality   int
	extractMaxWidth  int
	extractMaxHeight int
	extractLabel     string
	extractTrackFile string
	autoLayout       bool

	// shared graph file
	graphFile string

	// for graph connect command
	connectFrom  string
	connectTo    string
	connectLabel string

	// for export command
	exportOutputDir string
	exportName      string
	exportFormat    string
	exportZip       bool
)
