package settingsstore

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/mrlokans/h2o/internal/entities"
	"github.com/mrlokans/h2o/internal/formatter"
)

// SendTimeLayout is the stored format of send times. Send times are UTC.
const SendTimeLayout = "2006-01-02 15:04:05"

const (
	DefaultTitleFormat   = "Books/{title} by {authors}"
	DefaultBodyFormat    = "\n[Highlighted]({url}) on {date} at {time} UTC {timeoffset}:\n{blockquote}\n\n{notes}\n\n---\n"
	DefaultNoNotesFormat = "\n[Highlighted]({url}) on {date} at {time} UTC {timeoffset}:\n{blockquote}\n\n---\n"
	DefaultVaultName     = "My Vault"
	DefaultLibraryName   = "Calibre Library"
	DefaultMaxNoteSize   = 20000
	DefaultLastSendTime  = "1970-01-03 00:00:00"
	DefaultSchedule      = "0 * * * *"
)

type definition struct {
	value       string
	bookkeeping bool // maintained by sends, kept on a full reset
}

var definitions = map[string]definition{
	entities.SettingKeyTitleFormat:      {value: DefaultTitleFormat},
	entities.SettingKeyBodyFormat:       {value: DefaultBodyFormat},
	entities.SettingKeyNoNotesFormat:    {value: DefaultNoNotesFormat},
	entities.SettingKeyHeaderFormat:     {value: ""},
	entities.SettingKeyUseHeader:        {value: "false"},
	entities.SettingKeyCopyHeader:       {value: "false"},
	entities.SettingKeySortKey:          {value: formatter.FieldLocation},
	entities.SettingKeyMaxNoteSize:      {value: strconv.Itoa(DefaultMaxNoteSize)},
	entities.SettingKeyVaultName:        {value: DefaultVaultName},
	entities.SettingKeyLibraryName:      {value: DefaultLibraryName},
	entities.SettingKeyLastSendTime:     {value: DefaultLastSendTime, bookkeeping: true},
	entities.SettingKeyPrevSendTime:     {value: "", bookkeeping: true},
	entities.SettingKeyAutoSendEnabled:  {value: "false"},
	entities.SettingKeyAutoSendSchedule: {value: DefaultSchedule},
}

// Preferences is the effective configuration of note formatting, delivery
// and send bookkeeping.
type Preferences struct {
	TitleFormat   string `json:"title_format"`
	BodyFormat    string `json:"body_format"`
	NoNotesFormat string `json:"no_notes_format"`
	HeaderFormat  string `json:"header_format"`
	UseHeader     bool   `json:"use_header"`
	CopyHeader    bool   `json:"copy_header"`
	SortKey       string `json:"sort_key"`
	MaxNoteSize   int    `json:"max_note_size"` // formatter.Unbounded for no limit

	VaultName   string `json:"vault_name"`
	LibraryName string `json:"library_name"`

	LastSendTime string `json:"last_send_time"`
	PrevSendTime string `json:"prev_send"` // empty until a second send

	AutoSendEnabled  bool   `json:"auto_send_enabled"`
	AutoSendSchedule string `json:"auto_send_schedule"`
}

func parsePreferences(values map[string]string) (Preferences, error) {
	p := Preferences{
		TitleFormat:      values[entities.SettingKeyTitleFormat],
		BodyFormat:       values[entities.SettingKeyBodyFormat],
		NoNotesFormat:    values[entities.SettingKeyNoNotesFormat],
		HeaderFormat:     values[entities.SettingKeyHeaderFormat],
		SortKey:          values[entities.SettingKeySortKey],
		VaultName:        values[entities.SettingKeyVaultName],
		LibraryName:      values[entities.SettingKeyLibraryName],
		LastSendTime:     values[entities.SettingKeyLastSendTime],
		PrevSendTime:     values[entities.SettingKeyPrevSendTime],
		AutoSendSchedule: values[entities.SettingKeyAutoSendSchedule],
	}

	var err error
	if p.UseHeader, err = parseBool(entities.SettingKeyUseHeader, values); err != nil {
		return Preferences{}, err
	}
	if p.CopyHeader, err = parseBool(entities.SettingKeyCopyHeader, values); err != nil {
		return Preferences{}, err
	}
	if p.AutoSendEnabled, err = parseBool(entities.SettingKeyAutoSendEnabled, values); err != nil {
		return Preferences{}, err
	}

	size := values[entities.SettingKeyMaxNoteSize]
	if p.MaxNoteSize, err = strconv.Atoi(size); err != nil {
		return Preferences{}, fmt.Errorf("%s: %q is not a number", entities.SettingKeyMaxNoteSize, size)
	}

	return p, nil
}

func parseBool(key string, values map[string]string) (bool, error) {
	b, err := strconv.ParseBool(values[key])
	if err != nil {
		return false, fmt.Errorf("%s: %q is not true or false", key, values[key])
	}
	return b, nil
}

func (p Preferences) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.TitleFormat, validation.Required),
		validation.Field(&p.BodyFormat, validation.Required),
		validation.Field(&p.SortKey, validation.Required, validation.By(isTemplateField)),
		validation.Field(&p.MaxNoteSize, validation.By(isNoteSize)),
		validation.Field(&p.VaultName, validation.Required),
		validation.Field(&p.LibraryName, validation.Required),
		validation.Field(&p.LastSendTime, validation.Required, validation.By(isSendTime)),
		validation.Field(&p.PrevSendTime, validation.By(isSendTime)),
		validation.Field(&p.AutoSendSchedule, validation.Required, validation.By(isCronSchedule)),
	)
}

func isTemplateField(value interface{}) error {
	s, _ := value.(string)
	if !formatter.IsField(s) {
		return errors.New("must be a template field name")
	}
	return nil
}

func isNoteSize(value interface{}) error {
	size, _ := value.(int)
	if size != formatter.Unbounded && size <= 0 {
		return errors.New("must be -1 (no limit) or a positive number of characters")
	}
	return nil
}

func isSendTime(value interface{}) error {
	s, _ := value.(string)
	if s == "" {
		return nil
	}
	if _, err := time.Parse(SendTimeLayout, s); err != nil {
		return fmt.Errorf("must look like %q", SendTimeLayout)
	}
	return nil
}

func isCronSchedule(value interface{}) error {
	s, _ := value.(string)
	if s == "" {
		return nil
	}
	if err := ValidateCronSchedule(s); err != nil {
		return fmt.Errorf("invalid cron schedule: %v", err)
	}
	return nil
}

// LastSend returns the last send time.
func (p Preferences) LastSend() (time.Time, error) {
	return time.ParseInLocation(SendTimeLayout, p.LastSendTime, time.UTC)
}

// PrevSend returns the send time before the last one. ok is false when
// there has been no earlier send.
func (p Preferences) PrevSend() (t time.Time, ok bool, err error) {
	if p.PrevSendTime == "" {
		return time.Time{}, false, nil
	}
	t, err = time.ParseInLocation(SendTimeLayout, p.PrevSendTime, time.UTC)
	return t, err == nil, err
}

// FormatterOptions converts the preferences into formatter options.
func (p Preferences) FormatterOptions() formatter.Options {
	templates := formatter.Templates{
		Title:   p.TitleFormat,
		Body:    p.BodyFormat,
		NoNotes: p.NoNotesFormat,
	}
	if p.UseHeader {
		templates.Header = p.HeaderFormat
	}
	return formatter.Options{
		LibraryName: p.LibraryName,
		Templates:   templates,
		SortKey:     p.SortKey,
		MaxNoteSize: p.MaxNoteSize,
		CopyHeader:  p.CopyHeader,
	}
}
