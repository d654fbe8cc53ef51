package installer

var (
	WaitWithDiagnostics = waitWithDiagnostics
	CheckNamespaces     = checkNamespaces
)
