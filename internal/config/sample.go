package config

// SampleConfig returns a fully commented configuration file
func SampleConfig() string {
	return `# dashdrop configuration
version: "1.0"

server:
  # Base URL of the analysis server
  url: "http://127.0.0.1:8000"
  # Path the file is posted to
  endpoint: "/analyze"
  # Multipart field carrying the file
  field_name: "file"
  # Request timeout, 0 waits until the server answers
  timeout: 0s

upload:
  # What to do when a file is submitted while another is still uploading:
  # supersede cancels the older upload, reject refuses the newer one
  overlap: "supersede"
  # Count rows of csv/xlsx files before uploading
  preflight: true

response:
  # Accept the older "visuals" key in place of "charts"
  accept_legacy_key: true
  # Reject charts whose labels and values differ in length while decoding
  strict: false

render:
  output_dir: "./dashboard"
  # Write bar_chart.png and line_chart.png
  images: true
  width: 800
  height: 400
  bar_color: "#3498db"
  line_color: "#e74c3c"
  terminal_width: 60
  terminal_height: 10

watch:
  debounce: 300ms

output:
  default_format: "text" # text|json|markdown|csv
  color_mode: "auto"     # auto|always|never
  verbose: false
`
}

// MinimalSampleConfig returns a compact configuration with essential settings only
func MinimalSampleConfig() string {
	return `version: "1.0"
server:
  url: "http://127.0.0.1:8000"
render:
  output_dir: "./dashboard"
`
}
