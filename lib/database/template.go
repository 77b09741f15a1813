package database

// TemplateSection is the name of the built-in fallback section.
const TemplateSection = "template"

// templateText is the built-in database source used by LoadTemplate. It
// covers every value type so a fallback shell session can exercise the full
// query surface.
const templateText = `# built-in fallback database
template {
    string command_mode = "cmd"
    string prompt = "> "
    integer max_items = 100
    integer history_size = 50
    float version = 1.0
    boolean echo = true
    boolean strict = false
    list known_types = ["string", "integer", "float", "boolean", "list"]
}
`
