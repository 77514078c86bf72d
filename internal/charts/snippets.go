package charts

import (
	"encoding/json"
	"fmt"
)

// EChartsCDN is the script tag snippets expect on the page.
const EChartsCDN = `<script src="https://cdn.jsdelivr.net/npm/echarts@5.4.3/dist/echarts.min.js"></script>`

// ChartSnippet is an embeddable ECharts fragment.
// Div holds a single root <div id="..."> and Script the <script> block that
// initializes the chart in it. HTML combines both with a heading.
type ChartSnippet struct {
	ID     string
	Title  string
	Div    string
	Script string
	HTML   string
}

func newSnippet(id, title, height string, option map[string]interface{}) (ChartSnippet, error) {
	optJSON, err := json.Marshal(option)
	if err != nil {
		return ChartSnippet{}, fmt.Errorf("failed to encode %s options: %w", id, err)
	}
	div := fmt.Sprintf(`<div id="%s" style="width:100%%;height:%s;"></div>`, id, height)
	script := fmt.Sprintf(`<script>(function(){var el=document.getElementById('%s');if(!el)return;var c=echarts.init(el);var option=%s;c.setOption(option);window.addEventListener('resize',function(){c.resize();});})();</script>`, id, optJSON)
	html := fmt.Sprintf("<div class=\"chart-container\">\n\t<h3>%s</h3>\n\t%s\n</div>\n%s", title, div, script)
	return ChartSnippet{ID: id, Title: title, Div: div, Script: script, HTML: html}, nil
}
