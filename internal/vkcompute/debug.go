package vkcompute

import (
	"fmt"
	"image/color"

	"github.com/cockroachdb/errors"
	"github.com/sirupsen/logrus"
	"github.com/vkngwrapper/core/core1_0"
	"github.com/vkngwrapper/extensions/ext_debug_utils"
)

const validationLayerName = "VK_LAYER_KHRONOS_validation"

// DebugUtils is a thin layer over the debug utils extension: a messenger that
// routes validation output to the logger, plus command buffer and queue labels.
type DebugUtils struct {
	log       *logrus.Logger
	instance  core1_0.Instance
	extension ext_debug_utils.Extension
	messenger ext_debug_utils.DebugUtilsMessenger
}

// NewDebugUtils fails if the extension was not enabled on the instance.
func NewDebugUtils(instance core1_0.Instance, log *logrus.Logger) (*DebugUtils, error) {
	extension := ext_debug_utils.CreateExtensionFromInstance(instance)
	if extension == nil {
		return nil, errors.Wrapf(ErrDebugUtilsUnavailable, "extension %s", ext_debug_utils.ExtensionName)
	}

	return &DebugUtils{
		log:       log,
		instance:  instance,
		extension: extension,
	}, nil
}

func debugMessengerCreateInfo(log *logrus.Logger) ext_debug_utils.DebugUtilsMessengerCreateInfo {
	return ext_debug_utils.DebugUtilsMessengerCreateInfo{
		MessageSeverity: ext_debug_utils.SeverityError | ext_debug_utils.SeverityWarning | ext_debug_utils.SeverityInfo | ext_debug_utils.SeverityVerbose,
		MessageType:     ext_debug_utils.TypeGeneral | ext_debug_utils.TypeValidation | ext_debug_utils.TypePerformance,
		UserCallback: func(msgType ext_debug_utils.DebugUtilsMessageTypeFlags, severity ext_debug_utils.DebugUtilsMessageSeverityFlags, data *ext_debug_utils.DebugUtilsMessengerCallbackData) bool {
			log.Log(severityLevel(severity), formatDebugMessage(severity, msgType, data.Message))
			return false
		},
	}
}

// CreateMessenger installs the messenger. Calling it twice is a no-op.
func (d *DebugUtils) CreateMessenger() error {
	if d.messenger != nil {
		return nil
	}

	messenger, _, err := d.extension.CreateDebugUtilsMessenger(d.instance, nil, debugMessengerCreateInfo(d.log))
	if err != nil {
		return errors.Wrap(err, "debug utils: create messenger")
	}
	d.messenger = messenger
	return nil
}

func (d *DebugUtils) DestroyMessenger() {
	if d.messenger != nil {
		d.messenger.Destroy(nil)
		d.messenger = nil
	}
}

func label(name string, labelColor color.Color) ext_debug_utils.DebugUtilsLabel {
	return ext_debug_utils.DebugUtilsLabel{LabelName: name, Color: labelColor}
}

func (d *DebugUtils) CmdBeginLabel(buffer core1_0.CommandBuffer, name string, labelColor color.Color) error {
	return errors.Wrapf(d.extension.CmdBeginDebugUtilsLabel(buffer, label(name, labelColor)), "begin label %s", name)
}

func (d *DebugUtils) CmdInsertLabel(buffer core1_0.CommandBuffer, name string, labelColor color.Color) error {
	return errors.Wrapf(d.extension.CmdInsertDebugUtilsLabel(buffer, label(name, labelColor)), "insert label %s", name)
}

func (d *DebugUtils) CmdEndLabel(buffer core1_0.CommandBuffer) {
	d.extension.CmdEndDebugUtilsLabel(buffer)
}

func (d *DebugUtils) QueueBeginLabel(queue core1_0.Queue, name string, labelColor color.Color) error {
	return errors.Wrapf(d.extension.QueueBeginDebugUtilsLabel(queue, label(name, labelColor)), "begin queue label %s", name)
}

func (d *DebugUtils) QueueInsertLabel(queue core1_0.Queue, name string, labelColor color.Color) error {
	return errors.Wrapf(d.extension.QueueInsertDebugUtilsLabel(queue, label(name, labelColor)), "insert queue label %s", name)
}

func (d *DebugUtils) QueueEndLabel(queue core1_0.Queue) {
	d.extension.QueueEndDebugUtilsLabel(queue)
}

func severityLevel(severity ext_debug_utils.DebugUtilsMessageSeverityFlags) logrus.Level {
	switch {
	case severity&ext_debug_utils.SeverityError != 0:
		return logrus.ErrorLevel
	case severity&ext_debug_utils.SeverityWarning != 0:
		return logrus.WarnLevel
	case severity&ext_debug_utils.SeverityInfo != 0:
		return logrus.InfoLevel
	default:
		return logrus.DebugLevel
	}
}

func formatDebugMessage(severity ext_debug_utils.DebugUtilsMessageSeverityFlags, msgType ext_debug_utils.DebugUtilsMessageTypeFlags, message string) string {
	return fmt.Sprintf("[%s %s] - %s", severity, msgType, message)
}
