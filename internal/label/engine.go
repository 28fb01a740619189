package label

import (
	"fmt"
	"strings"

	"github.com/florist-erp/internal/apperr"
)

// 默认字号（pt）
const (
	DefaultMessageFontSize = 14
	DefaultSenderFontSize  = 12
)

// DefaultFonts 系统设置未配置字体时的可选字体
var DefaultFonts = []string{
	"Noto Sans KR",
	"Malgun Gothic",
	"Nanum Gothic",
	"Arial",
	"Helvetica",
	"Times New Roman",
}

// Font 字体与字号
type Font struct {
	Family string `json:"family"`
	Size   int    `json:"size"`
}

// Card 被填充单元格上的卡片内容
type Card struct {
	Message     string `json:"message"`
	Sender      string `json:"sender"`
	MessageFont Font   `json:"message_font"`
	SenderFont  Font   `json:"sender_font"`
}

// Sheet 预览结果：网格 + 卡片 + 物理尺寸
type Sheet struct {
	Grid         Grid    `json:"grid"`
	Card         Card    `json:"card"`
	CellHeightMM float64 `json:"cell_height_mm"`
	ColumnGapMM  float64 `json:"column_gap_mm"`
	Editing      bool    `json:"editing"`
}

// PrintPayload 交给打印协作方的数据
type PrintPayload struct {
	OrderID         uint   `json:"order_id"`
	LabelType       string `json:"label_type"`
	StartPosition   int    `json:"start_position"`
	MessageFont     string `json:"message_font"`
	MessageFontSize int    `json:"message_font_size"`
	SenderFont      string `json:"sender_font"`
	SenderFontSize  int    `json:"sender_font_size"`
	MessageContent  string `json:"message_content"`
	SenderName      string `json:"sender_name"`
}

// Options 引擎初始化参数
type Options struct {
	AvailableFonts     []string
	MessageFont        string
	MessageFontSize    int
	SenderFont         string
	SenderFontSize     int
	DefaultLabelTypeID string
}

// Engine 留言卡标签排版状态机，不做任何 I/O
type Engine struct {
	fonts         []string
	defaultMsg    int
	defaultSender int

	orderID     uint
	geometry    Geometry
	start       int
	messageFont Font
	senderFont  Font
	message     string
	sender      string
	editing     bool
}

// NewEngine 创建引擎，字体列表为空时使用 DefaultFonts
func NewEngine(opts Options) *Engine {
	fonts := normalizeFonts(opts.AvailableFonts)
	if len(fonts) == 0 {
		fonts = append([]string(nil), DefaultFonts...)
	}
	e := &Engine{
		fonts:         fonts,
		defaultMsg:    positiveOr(opts.MessageFontSize, DefaultMessageFontSize),
		defaultSender: positiveOr(opts.SenderFontSize, DefaultSenderFontSize),
		geometry:      DefaultGeometry(),
		start:         1,
	}
	if g, ok := Lookup(opts.DefaultLabelTypeID); ok {
		e.geometry = g
	}
	e.messageFont = Font{Family: e.pickFont(opts.MessageFont), Size: e.defaultMsg}
	e.senderFont = Font{Family: e.pickFont(opts.SenderFont), Size: e.defaultSender}
	return e
}

// Load 载入订单留言，按分隔行拆分正文与署名
func (e *Engine) Load(orderID uint, rawMessage, ordererName string) {
	e.orderID = orderID
	e.message, e.sender = SplitMessage(rawMessage, ordererName)
}

// SetMessage 编辑正文
func (e *Engine) SetMessage(message string) { e.message = message }

// SetSender 编辑署名
func (e *Engine) SetSender(sender string) { e.sender = sender }

// Message 当前正文
func (e *Engine) Message() string { return e.message }

// Sender 当前署名
func (e *Engine) Sender() string { return e.sender }

// Geometry 当前标签纸规格
func (e *Engine) Geometry() Geometry { return e.geometry }

// StartPosition 当前起始位置
func (e *Engine) StartPosition() int { return e.start }

// MessageFont 当前正文字体
func (e *Engine) MessageFont() Font { return e.messageFont }

// SenderFont 当前署名字体
func (e *Engine) SenderFont() Font { return e.senderFont }

// AvailableFonts 可选字体
func (e *Engine) AvailableFonts() []string { return append([]string(nil), e.fonts...) }

// Editing 是否处于编辑模式
func (e *Engine) Editing() bool { return e.editing }

// SelectLabelType 切换标签纸规格，起始位置重置为 1
func (e *Engine) SelectLabelType(id string) error {
	g, ok := Lookup(strings.TrimSpace(id))
	if !ok {
		return apperr.Validation("label_type", fmt.Sprintf("unknown label type %q", id))
	}
	e.geometry = g
	e.start = 1
	return nil
}

// SetStartPosition 设置起始位置，必须在 1..CellCount 范围内
func (e *Engine) SetStartPosition(position int) error {
	if !e.geometry.Contains(position) {
		return apperr.Validation("start_position", fmt.Sprintf("start position must be within 1-%d", e.geometry.CellCount))
	}
	e.start = position
	return nil
}

// SetMessageFont 设置正文字体，字号非正数时回退默认值
func (e *Engine) SetMessageFont(family string, size int) error {
	font, err := e.resolveFont("message_font", family, size, e.defaultMsg)
	if err != nil {
		return err
	}
	e.messageFont = font
	return nil
}

// SetSenderFont 设置署名字体，字号非正数时回退默认值
func (e *Engine) SetSenderFont(family string, size int) error {
	font, err := e.resolveFont("sender_font", family, size, e.defaultSender)
	if err != nil {
		return err
	}
	e.senderFont = font
	return nil
}

// ToggleEdit 切换编辑/预览模式，不影响其他状态
func (e *Engine) ToggleEdit() bool {
	e.editing = !e.editing
	return e.editing
}

// Preview 生成当前状态的预览
func (e *Engine) Preview() (Sheet, error) {
	grid, err := RenderGrid(e.geometry, e.start)
	if err != nil {
		return Sheet{}, err
	}
	card := e.card()
	for i := range grid.Cells {
		if grid.Cells[i].Filled {
			c := card
			grid.Cells[i].Card = &c
		}
	}
	return Sheet{
		Grid:         grid,
		Card:         card,
		CellHeightMM: e.geometry.CellHeightMM,
		ColumnGapMM:  e.geometry.ColumnGapMM,
		Editing:      e.editing,
	}, nil
}

// BuildPrintPayload 组装打印数据，正文为空时拒绝
func (e *Engine) BuildPrintPayload() (PrintPayload, error) {
	if strings.TrimSpace(e.message) == "" {
		return PrintPayload{}, apperr.Validation("message_content", "message content is required")
	}
	if !e.geometry.Contains(e.start) {
		return PrintPayload{}, apperr.Validation("start_position", fmt.Sprintf("start position must be within 1-%d", e.geometry.CellCount))
	}
	return PrintPayload{
		OrderID:         e.orderID,
		LabelType:       e.geometry.ID,
		StartPosition:   e.start,
		MessageFont:     e.messageFont.Family,
		MessageFontSize: e.messageFont.Size,
		SenderFont:      e.senderFont.Family,
		SenderFontSize:  e.senderFont.Size,
		MessageContent:  e.message,
		SenderName:      e.sender,
	}, nil
}

func (e *Engine) card() Card {
	return Card{
		Message:     e.message,
		Sender:      e.sender,
		MessageFont: e.messageFont,
		SenderFont:  e.senderFont,
	}
}

func (e *Engine) resolveFont(field, family string, size, fallback int) (Font, error) {
	family = strings.TrimSpace(family)
	if family == "" {
		family = e.fonts[0]
	}
	if !e.hasFont(family) {
		return Font{}, apperr.Validation(field, fmt.Sprintf("font %q is not available", family))
	}
	return Font{Family: family, Size: positiveOr(size, fallback)}, nil
}

func (e *Engine) hasFont(family string) bool {
	for _, f := range e.fonts {
		if f == family {
			return true
		}
	}
	return false
}

func (e *Engine) pickFont(family string) string {
	family = strings.TrimSpace(family)
	if family != "" && e.hasFont(family) {
		return family
	}
	return e.fonts[0]
}

func normalizeFonts(fonts []string) []string {
	seen := make(map[string]struct{}, len(fonts))
	out := make([]string, 0, len(fonts))
	for _, f := range fonts {
		f = strings.TrimSpace(f)
		if f == "" {
			continue
		}
		if _, ok := seen[f]; ok {
			continue
		}
		seen[f] = struct{}{}
		out = append(out, f)
	}
	return out
}

func positiveOr(v, fallback int) int {
	if v <= 0 {
		return fallback
	}
	return v
}
