package build

// Mechanism identifiers: the recipe values that select which sections a
// pipeline step installs.
const (
	// RecipeGitSubmodules marks sections provisioned as git submodules.
	RecipeGitSubmodules = "zerokspot.recipe.git"
	// RecipeVersionSetup marks sections rendered by the version templating
	// recipe (setup.py, __version__.py).
	RecipeVersionSetup = "infi.recipe.template.version"
	// RecipeConsoleScripts marks sections generating console-script
	// wrappers.
	RecipeConsoleScripts = "infi.vendata.console_scripts"
)

// SectionPythonDist is the section installing the isolated interpreter
// distribution.
const SectionPythonDist = "python-distribution"
